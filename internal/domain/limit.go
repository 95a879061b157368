package domain

import "github.com/shopspring/decimal"

// Limit holds per-direction transfer bounds. Zero means "no bound".
type Limit struct {
	MinSumGive decimal.Decimal `json:"minSumGive"`
	MaxSumGive decimal.Decimal `json:"maxSumGive"`
	MinSumGet  decimal.Decimal `json:"minSumGet"`
	MaxSumGet  decimal.Decimal `json:"maxSumGet"`
	Popup      *string         `json:"popup,omitempty"`
	Warning    string          `json:"-"`
}

// Reserve is the available payout liquidity of a target currency.
type Reserve struct {
	Amount  decimal.Decimal
	Warning string
}
