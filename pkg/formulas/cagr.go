package formulas

import "math"

// CAGR calculates the compound annual growth rate between two values.
//
// Formula: CAGR = (end / start)^(1/years) - 1
//
// Returns the rate as a decimal (0.11 = 11%). A non-positive start or
// horizon has no meaningful rate and yields 0.
func CAGR(start, end float64, years int) float64 {
	if start <= 0 || years <= 0 || end < 0 {
		return 0
	}
	return math.Pow(end/start, 1/float64(years)) - 1
}

// CAGRPercent is CAGR expressed in percent
func CAGRPercent(start, end float64, years int) float64 {
	return CAGR(start, end, years) * 100
}
