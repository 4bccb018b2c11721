// Package formulas holds the pure financial math used by the projection engine.
package formulas

import "math"

// FutureValueAnnuityDue returns the value of a recurring contribution paid at
// the start of every period.
//
// Formula: FV = P * ((1+r)^n - 1) / r * (1+r)
//
// Args:
//
//	payment: contribution per period
//	rate:    rate per period as a decimal (0.01 = 1%)
//	periods: number of contributions
//
// A zero rate degenerates to payment * periods.
func FutureValueAnnuityDue(payment, rate float64, periods int) float64 {
	if periods <= 0 {
		return 0
	}
	if rate == 0 {
		return payment * float64(periods)
	}
	growth := math.Pow(1+rate, float64(periods))
	return payment * (growth - 1) / rate * (1 + rate)
}

// FutureValueLumpSum compounds a single deposit annually.
//
// Formula: FV = P * (1+r)^years
func FutureValueLumpSum(principal, annualRate float64, years int) float64 {
	if years <= 0 {
		return principal
	}
	return principal * math.Pow(1+annualRate, float64(years))
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
