package domain

import "github.com/shopspring/decimal"

// Direction is an allowed ordered currency pair with its exchange rate.
type Direction struct {
	ID       int64           `json:"id"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"isActive"`
	From     Currency        `json:"from"`
	To       Currency        `json:"to"`
}

type DirectionPage struct {
	Items []Direction `json:"items"`
	Total int         `json:"total"`
	// Warning is the message of a successful response the server flagged as a warning.
	Warning string `json:"-"`
}

// Sources projects the From side of every direction.
func (p DirectionPage) Sources() []Currency {
	out := make([]Currency, 0, len(p.Items))
	for _, d := range p.Items {
		out = append(out, d.From)
	}
	return out
}

// Targets projects the To side of every direction.
func (p DirectionPage) Targets() []Currency {
	out := make([]Currency, 0, len(p.Items))
	for _, d := range p.Items {
		out = append(out, d.To)
	}
	return out
}

// ByFrom returns the first direction leaving the given currency id.
func (p DirectionPage) ByFrom(id int64) *Direction {
	for i := range p.Items {
		if p.Items[i].From.ID == id {
			d := p.Items[i]
			return &d
		}
	}
	return nil
}

// ByTo returns the first direction arriving at the given currency id.
func (p DirectionPage) ByTo(id int64) *Direction {
	for i := range p.Items {
		if p.Items[i].To.ID == id {
			d := p.Items[i]
			return &d
		}
	}
	return nil
}
