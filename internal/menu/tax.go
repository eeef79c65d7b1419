package menu

import "math"

// TaxMultiplier is the fixed 13% surcharge applied to every menu price.
const TaxMultiplier = 1.13

// ApplyTax parses price (number, numeric string, Number, Text or nil) and
// returns it tax-inclusive, rounded to cents. Unparseable input yields 0.
func ApplyTax(price any) float64 {
	return RoundCents(parseAmount(price) * TaxMultiplier)
}

// RoundCents rounds to two decimals as round(x*100)/100, half away from zero.
// Non-finite input yields 0.
func RoundCents(x float64) float64 {
	if !finite(x) {
		return 0
	}
	r := math.Round(x*100) / 100
	if r == 0 {
		// avoid -0 in encoded output
		return 0
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
