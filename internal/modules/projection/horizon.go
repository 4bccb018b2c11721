package projection

import (
	"fmt"
	"math"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

const (
	// MinHorizonYears is the shortest projectable horizon
	MinHorizonYears = 1
	// MaxHorizonYears is the longest projectable horizon
	MaxHorizonYears = 30
)

// ValidateHorizon accepts whole years in [MinHorizonYears, MaxHorizonYears]
func ValidateHorizon(years int) error {
	if years < MinHorizonYears || years > MaxHorizonYears {
		return fmt.Errorf("%w: %d years is outside %d..%d",
			domain.ErrInvalidHorizon, years, MinHorizonYears, MaxHorizonYears)
	}
	return nil
}

// HorizonFromFloat converts a decoded JSON number into a horizon.
// Fractional, non-finite and out-of-range values are rejected.
func HorizonFromFloat(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v is not a whole number of years", domain.ErrInvalidHorizon, v)
	}
	if v < MinHorizonYears || v > MaxHorizonYears {
		return 0, fmt.Errorf("%w: %v years is outside %d..%d",
			domain.ErrInvalidHorizon, v, MinHorizonYears, MaxHorizonYears)
	}
	years := int(v)
	return years, ValidateHorizon(years)
}
