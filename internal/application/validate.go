package application

import (
	"fmt"

	"exchange-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// Warnings are advisory messages for the two amount fields. Empty means fine.
type Warnings struct {
	Give string `json:"giveWarning,omitempty"`
	Get  string `json:"getWarning,omitempty"`
}

func (w Warnings) OK() bool { return w.Give == "" && w.Get == "" }

// ValidateAmounts checks entered amounts against direction limits and the
// available reserve. The Get side upper bound is the smaller of maxSumGet and
// reserve, considering only positive values.
func ValidateAmounts(limit *domain.Limit, reserve, giveAmount, getAmount decimal.Decimal, give, get *domain.Currency) Warnings {
	var l domain.Limit
	if limit != nil {
		l = *limit
	}
	var w Warnings

	switch {
	case l.MinSumGive.IsPositive() && giveAmount.LessThan(l.MinSumGive):
		w.Give = boundMessage("Minimum", l.MinSumGive, give)
	case l.MaxSumGive.IsPositive() && giveAmount.GreaterThan(l.MaxSumGive):
		w.Give = boundMessage("Maximum", l.MaxSumGive, give)
	}

	effectiveMax, bounded := smallestPositive(l.MaxSumGet, reserve)
	switch {
	case l.MinSumGet.IsPositive() && getAmount.LessThan(l.MinSumGet):
		w.Get = boundMessage("Minimum", l.MinSumGet, get)
	case bounded && getAmount.GreaterThan(effectiveMax):
		w.Get = boundMessage("Maximum", effectiveMax, get)
	}
	return w
}

func smallestPositive(vals ...decimal.Decimal) (decimal.Decimal, bool) {
	var (
		out   decimal.Decimal
		found bool
	)
	for _, v := range vals {
		if !v.IsPositive() {
			continue
		}
		if !found || v.LessThan(out) {
			out, found = v, true
		}
	}
	return out, found
}

func boundMessage(kind string, v decimal.Decimal, c *domain.Currency) string {
	var (
		fid  int32
		code string
	)
	if c != nil {
		fid, code = c.Fidelity, c.Code
	}
	return fmt.Sprintf("%s %s %s", kind, domain.Fixed(v, fid), code)
}
