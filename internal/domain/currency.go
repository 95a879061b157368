package domain

// Currency is a server-side currency snapshot. Fidelity is the number of
// decimal places used when displaying amounts of this currency.
type Currency struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Fidelity int32  `json:"fidelity"`
}

// CurrencyList is one currency listing together with the server warning
// attached to it, if any.
type CurrencyList struct {
	Items   []Currency
	Warning string
}

// FindCurrency returns a copy of the entry with the given id, or nil.
func FindCurrency(list []Currency, id int64) *Currency {
	for i := range list {
		if list[i].ID == id {
			c := list[i]
			return &c
		}
	}
	return nil
}

// PickCurrency returns the entry matching id when present and the first entry
// otherwise. An empty list yields nil.
func PickCurrency(list []Currency, id int64) *Currency {
	if id != 0 {
		if c := FindCurrency(list, id); c != nil {
			return c
		}
	}
	if len(list) == 0 {
		return nil
	}
	c := list[0]
	return &c
}
