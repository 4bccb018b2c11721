package formulas

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundWhole rounds v to the nearest whole unit, halves away from zero.
// Non-finite values are returned unchanged.
func RoundWhole(v float64) float64 {
	return RoundPlaces(v, 0)
}

// RoundPlaces rounds v to the given number of decimal places
func RoundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatFixed renders v with exactly places decimals ("3.10", "-0.50")
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0." + zeros(places)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func zeros(n int32) string {
	b := make([]byte, 0, n)
	for i := int32(0); i < n; i++ {
		b = append(b, '0')
	}
	return string(b)
}
