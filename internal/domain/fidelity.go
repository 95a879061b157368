package domain

import "github.com/shopspring/decimal"

// Display rounds v to fidelity decimals and drops trailing zeros,
// so 100.00 renders as "100" and 1.50 as "1.5".
func Display(v decimal.Decimal, fidelity int32) string {
	return v.Round(clampFidelity(fidelity)).String()
}

// RoundTo rounds v to fidelity decimals.
func RoundTo(v decimal.Decimal, fidelity int32) decimal.Decimal {
	return v.Round(clampFidelity(fidelity))
}

// Fixed rounds v to exactly fidelity decimals, keeping trailing zeros.
func Fixed(v decimal.Decimal, fidelity int32) string {
	return v.StringFixed(clampFidelity(fidelity))
}

// MaxFidelity bounds the number of decimal places rendered for any currency.
// Rounding cost grows with the place count.
const MaxFidelity int32 = 18

// ValidFidelity reports whether f is within 0..MaxFidelity.
func ValidFidelity(f int32) bool { return f >= 0 && f <= MaxFidelity }

func clampFidelity(f int32) int32 {
	return min(max(f, 0), MaxFidelity)
}
