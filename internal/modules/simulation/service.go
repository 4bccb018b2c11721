// Package simulation runs the portfolio projection: it validates a
// portfolio snapshot, projects every entry year by year and assembles the
// blended result.
package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/internal/modules/allocation"
	"github.com/atreyakamat/solara-mf/internal/modules/diversification"
	"github.com/atreyakamat/solara-mf/internal/modules/projection"
	"github.com/atreyakamat/solara-mf/pkg/formulas"
)

// DefaultShortTermReturnPct is used when a fund has no 1-year return
const DefaultShortTermReturnPct = 15.0

// PortfolioReader loads a portfolio with its entries and their funds
type PortfolioReader interface {
	GetPortfolio(ctx context.Context, id int64) (*domain.Portfolio, error)
}

// GrowthProjector validates horizons and starts per-entry trajectories
type GrowthProjector interface {
	ValidateHorizon(years int) error
	Begin(entry domain.PortfolioEntry) projection.Trajectory
}

// Service runs simulations. It holds no per-run state and is safe for
// concurrent use when its projector is.
type Service struct {
	portfolios PortfolioReader
	projector  GrowthProjector
	now        func() time.Time
	newRunID   func() string
}

// NewService creates a simulation service
func NewService(portfolios PortfolioReader, projector GrowthProjector) *Service {
	return &Service{
		portfolios: portfolios,
		projector:  projector,
		now:        time.Now,
		newRunID:   func() string { return uuid.New().String() },
	}
}

// Simulate projects the stored portfolio over years.
// The portfolio is read once; nothing is written back.
func (s *Service) Simulate(ctx context.Context, portfolioID int64, years int) (*Result, error) {
	portfolio, err := s.portfolios.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	result, err := s.Project(portfolio.Items, years)
	if err != nil {
		return nil, err
	}

	result.PortfolioID = portfolio.ID
	result.PortfolioRevision = portfolio.Revision
	return result, nil
}

// Project runs the engine over an entry snapshot
func (s *Service) Project(entries []domain.PortfolioEntry, years int) (*Result, error) {
	if err := allocation.Validate(entries); err != nil {
		return nil, err
	}
	if err := s.projector.ValidateHorizon(years); err != nil {
		return nil, err
	}

	trajectories := make([]projection.Trajectory, len(entries))
	for i, e := range entries {
		trajectories[i] = s.projector.Begin(e)
	}

	yearly := make([]YearSnapshot, 0, years+1)
	var finalValue, finalInvested float64
	for year := 0; year <= years; year++ {
		var value, invested float64
		for i, traj := range trajectories {
			pt, err := traj.At(year)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", entries[i].ID, err)
			}
			value += pt.Value
			invested += pt.Invested
		}
		if !formulas.IsFinite(value) || !formulas.IsFinite(invested) {
			return nil, fmt.Errorf("%w: portfolio total at year %d", domain.ErrComputation, year)
		}

		yearly = append(yearly, YearSnapshot{
			Year:     year,
			Value:    roundWhole(value),
			Invested: roundWhole(invested),
		})
		finalValue, finalInvested = value, invested
	}

	projected := roundWhole(finalValue)
	contributed := roundWhole(finalInvested)

	return &Result{
		RunID:           s.newRunID(),
		GeneratedAt:     s.now().UTC(),
		HorizonYears:    years,
		ProjectedValue:  projected,
		InvestedAmount:  contributed,
		TotalReturns:    projected - contributed,
		CAGR:            formulas.CAGRPercent(float64(contributed), float64(projected), years),
		YearlyData:      yearly,
		Diversification: diversification.Aggregate(entries),
		ShortTerm:       shortTerm(entries),
		Blended:         blend(entries),
	}, nil
}

func roundWhole(v float64) int64 {
	return int64(formulas.RoundWhole(v))
}

// shortTerm estimates 3- and 6-month returns as a quarter and a half of the
// allocation-weighted 1-year return
func shortTerm(entries []domain.PortfolioEntry) ShortTerm {
	var m3, m6 float64
	for _, e := range entries {
		r := domain.FloatOr(e.Fund.Return1Y, DefaultShortTermReturnPct) / 100
		share := float64(e.Allocation) / 100
		m3 += (r / 4) * share
		m6 += (r / 2) * share
	}
	return ShortTerm{
		M3: formulas.FormatFixed(m3*100, 2),
		M6: formulas.FormatFixed(m6*100, 2),
	}
}

// blend weights each fund statistic by allocation. Missing 3-year return
// and deviation use the projection defaults; a missing 5-year return drops
// the entry from that mean.
func blend(entries []domain.PortfolioEntry) Blended {
	return Blended{
		Return1Y: weighted(entries, return1y, domain.FloatPtr(DefaultShortTermReturnPct)),
		Return3Y: weighted(entries, return3y, domain.FloatPtr(projection.DefaultAnnualReturnPct)),
		Return5Y: weighted(entries, return5y, nil),
		StdDev:   weighted(entries, stdDev, domain.FloatPtr(projection.DefaultVolatilityPct)),
	}
}

func return1y(f domain.FundStatistics) *float64 { return f.Return1Y }
func return3y(f domain.FundStatistics) *float64 { return f.Return3Y }
func return5y(f domain.FundStatistics) *float64 { return f.Return5Y }
func stdDev(f domain.FundStatistics) *float64   { return f.StdDev }

func weighted(entries []domain.PortfolioEntry, get func(domain.FundStatistics) *float64, fallback *float64) float64 {
	values := make([]float64, 0, len(entries))
	weights := make([]float64, 0, len(entries))
	for _, e := range entries {
		v := get(e.Fund.FundStatistics)
		if v == nil {
			if fallback == nil {
				continue
			}
			v = fallback
		}
		values = append(values, *v)
		weights = append(weights, float64(e.Allocation))
	}
	return formulas.RoundPlaces(formulas.WeightedMean(values, weights), 2)
}
