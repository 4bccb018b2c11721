// Package projection compounds a single portfolio entry over a horizon.
//
// Each run perturbs the fund's trailing 3-year return by one random draw
// per entry, scaled by the fund's standard deviation:
//
//	noise    = (U - 0.5) * stdDev       U ~ Uniform[0,1)
//	r_annual = return3y + noise
//	r        = r_annual / 12             (monthly)
//
// SIP entries accumulate as an annuity-due over 12*Y months; LUMPSUM
// entries compound annually. The draw is held for every year of the run, so
// re-running the same inputs gives a different trajectory.
package projection

import (
	"fmt"

	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/pkg/formulas"
)

const (
	// DefaultAnnualReturnPct is used when a fund has no 3-year return
	DefaultAnnualReturnPct = 12.0
	// DefaultVolatilityPct is used when a fund has no standard deviation
	DefaultVolatilityPct = 15.0

	monthsPerYear = 12
)

// Point is one entry's position at the end of a year. Figures are unrounded.
type Point struct {
	Value    float64
	Invested float64
}

// Projector creates per-entry trajectories
type Projector struct {
	noise NoiseSource
}

// NewProjector returns a projector drawing from noise, or from DefaultNoise
// when noise is nil
func NewProjector(noise NoiseSource) *Projector {
	if noise == nil {
		noise = DefaultNoise()
	}
	return &Projector{noise: noise}
}

// ValidateHorizon implements the horizon check used by the simulation service
func (p *Projector) ValidateHorizon(years int) error {
	return ValidateHorizon(years)
}

// Begin fixes the run parameters of entry, drawing its noise exactly once.
// Entries with a zero allocation draw nothing.
func (p *Projector) Begin(entry domain.PortfolioEntry) Trajectory {
	if entry.Allocation == 0 {
		return Trajectory{mode: entry.Mode, idle: true, fundID: entry.FundID}
	}

	annual := domain.FloatOr(entry.Fund.Return3Y, DefaultAnnualReturnPct) / 100
	volatility := domain.FloatOr(entry.Fund.StdDev, DefaultVolatilityPct) / 100
	noise := (p.noise.Float64() - 0.5) * volatility

	return Trajectory{
		mode:       entry.Mode,
		fundID:     entry.FundID,
		allocated:  float64(entry.Amount) * float64(entry.Allocation) / 100,
		annualRate: annual + noise,
		noise:      noise,
	}
}

// Trajectory is one entry's projection for a single run
type Trajectory struct {
	mode       domain.ContributionMode
	fundID     int64
	allocated  float64
	annualRate float64
	noise      float64
	idle       bool
}

// Noise returns the perturbation drawn for this run (decimal)
func (t Trajectory) Noise() float64 {
	return t.noise
}

// AnnualRate returns the perturbed annual return (decimal)
func (t Trajectory) AnnualRate() float64 {
	return t.annualRate
}

// MonthlyRate returns the perturbed monthly rate used for SIP entries
func (t Trajectory) MonthlyRate() float64 {
	return t.annualRate / monthsPerYear
}

// At returns the entry's position after year whole years. Year 0 is the
// starting position: nothing for SIP, the deposit at face value for LUMPSUM.
func (t Trajectory) At(year int) (Point, error) {
	if year < 0 {
		return Point{}, fmt.Errorf("%w: negative year %d", domain.ErrInvalidHorizon, year)
	}
	if t.idle {
		return Point{}, nil
	}

	var pt Point
	switch t.mode {
	case domain.ModeRecurring:
		months := year * monthsPerYear
		pt = Point{
			Value:    formulas.FutureValueAnnuityDue(t.allocated, t.MonthlyRate(), months),
			Invested: t.allocated * float64(months),
		}
	case domain.ModeOneTime:
		pt = Point{
			Value:    formulas.FutureValueLumpSum(t.allocated, t.annualRate, year),
			Invested: t.allocated,
		}
	default:
		return Point{}, fmt.Errorf("%w: fund %d has mode %q", domain.ErrInvalidEntry, t.fundID, t.mode)
	}

	if !formulas.IsFinite(pt.Value) || !formulas.IsFinite(pt.Invested) {
		return Point{}, fmt.Errorf("%w: fund %d at year %d", domain.ErrComputation, t.fundID, year)
	}
	return pt, nil
}
