package application

import (
	"fmt"

	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// FormatRate renders the exchange rate so that the number shown is never
// below one. For price < 1 the rate is inverted and rounded to the Give
// currency's fidelity; otherwise it is rounded to the Get currency's fidelity.
// A non-positive price or a missing currency renders as "".
func FormatRate(price decimal.Decimal, give, get *domain.Currency) string {
	if give == nil || get == nil || !price.IsPositive() {
		return ""
	}
	if price.LessThan(one) {
		inv := one.Div(price)
		return fmt.Sprintf("1 %s = %s %s", get.Code, domain.Display(inv, give.Fidelity), give.Code)
	}
	return fmt.Sprintf("1 %s = %s %s", give.Code, domain.Display(price, get.Fidelity), get.Code)
}

// FormatQuote is FormatRate applied to a resolved quote.
func FormatQuote(q domain.Quote) string {
	if !q.Price.Valid {
		return ""
	}
	return FormatRate(q.Price.Decimal, q.Give, q.Get)
}
