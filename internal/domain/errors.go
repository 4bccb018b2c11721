package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPortfolio is returned when a run is requested for a portfolio
	// without entries
	ErrEmptyPortfolio = errors.New("portfolio has no entries")
	// ErrNotFullyAllocated is returned when entry allocations do not sum to 100
	ErrNotFullyAllocated = errors.New("portfolio not fully allocated")
	// ErrInvalidHorizon is returned for horizons outside 1..30 whole years
	ErrInvalidHorizon = errors.New("invalid horizon")
	// ErrPortfolioNotFound is returned when the portfolio id is unknown
	ErrPortfolioNotFound = errors.New("portfolio not found")
	// ErrComputation is returned when a projection produces a non-finite number
	ErrComputation = errors.New("projection produced a non-finite value")
	// ErrFundNotFound is returned when the fund id is unknown
	ErrFundNotFound = errors.New("fund not found")
	// ErrItemNotFound is returned when a portfolio entry id is unknown
	ErrItemNotFound = errors.New("portfolio item not found")
	// ErrInvalidEntry is returned for malformed entry input
	ErrInvalidEntry = errors.New("invalid portfolio entry")
)

// AllocationError carries the observed allocation total of a portfolio that
// is not fully allocated.
type AllocationError struct {
	Total int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: total is %d%%, must be 100%%", ErrNotFullyAllocated, e.Total)
}

// Unwrap lets errors.Is match ErrNotFullyAllocated
func (e *AllocationError) Unwrap() error {
	return ErrNotFullyAllocated
}
