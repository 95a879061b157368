package domain

import "github.com/shopspring/decimal"

// Quote is the transient selection shown to the user. Nil pointers and an
// invalid Price mean nothing could be resolved for that part.
type Quote struct {
	Give        *Currency
	Get         *Currency
	DirectionID *int64
	Price       decimal.NullDecimal
}

// Resolved reports whether a direction was found for the selected pair.
func (q Quote) Resolved() bool {
	return q.DirectionID != nil && q.Price.Valid
}

// QuoteFor builds a quote from the matched direction, which may be nil.
func QuoteFor(give, get *Currency, d *Direction) Quote {
	q := Quote{Give: give, Get: get}
	if d != nil {
		id := d.ID
		q.DirectionID = &id
		q.Price = decimal.NewNullDecimal(d.Price)
	}
	return q
}
