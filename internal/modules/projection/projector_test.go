package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/atreyakamat/solara-mf/internal/domain"
	testingpkg "github.com/atreyakamat/solara-mf/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sipEntry(return3y, stdDev float64, amount int64, allocation int) domain.PortfolioEntry {
	fund := testingpkg.NewFund(1, "Fund", 15, return3y, stdDev, nil)
	return testingpkg.NewEntry(1, fund, amount, domain.ModeRecurring, allocation)
}

func TestHorizon(t *testing.T) {
	for _, years := range []int{1, 10, 30} {
		assert.NoError(t, ValidateHorizon(years), "years=%d", years)
	}
	for _, years := range []int{0, -1, 31} {
		err := ValidateHorizon(years)
		require.Error(t, err, "years=%d", years)
		assert.True(t, errors.Is(err, domain.ErrInvalidHorizon))
	}
}

func TestHorizonFromFloat(t *testing.T) {
	tests := []struct {
		input    float64
		expected int
		wantErr  bool
	}{
		{10, 10, false},
		{1, 1, false},
		{30, 30, false},
		{1.5, 0, true},
		{0, 0, true},
		{31, 0, true},
		{-3, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		got, err := HorizonFromFloat(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input=%v", tt.input)
			assert.True(t, errors.Is(err, domain.ErrInvalidHorizon))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestAt_SingleSIPMatchesAnnuityDue(t *testing.T) {
	// 12% annual, noise disabled: r = 0.01 per month
	p := NewProjector(NoNoise)
	traj := p.Begin(sipEntry(12, 15, 1000, 100))

	pt, err := traj.At(1)
	require.NoError(t, err)

	expected := 1000 * (math.Pow(1.01, 12) - 1) / 0.01 * 1.01
	assert.InDelta(t, expected, pt.Value, 1e-9)
	assert.InDelta(t, 12809.33, pt.Value, 0.01)
	assert.Equal(t, 12000.0, pt.Invested)
}

func TestAt_ZeroRateValueEqualsInvested(t *testing.T) {
	p := NewProjector(NoNoise)
	traj := p.Begin(sipEntry(0, 15, 2500, 100))

	for year := 0; year <= MaxHorizonYears; year++ {
		pt, err := traj.At(year)
		require.NoError(t, err)
		assert.Equal(t, pt.Invested, pt.Value, "year=%d", year)
	}
}

func TestAt_AllocationScalesAmount(t *testing.T) {
	p := NewProjector(NoNoise)
	traj := p.Begin(sipEntry(0, 15, 1000, 40))

	pt, err := traj.At(2)
	require.NoError(t, err)
	assert.Equal(t, 400.0*24, pt.Invested)
}

func TestAt_ZeroAllocationContributesNothing(t *testing.T) {
	noise := &SequenceNoise{Values: []float64{0.9}}
	p := NewProjector(noise)

	traj := p.Begin(sipEntry(12, 15, 1000, 0))
	pt, err := traj.At(10)
	require.NoError(t, err)
	assert.Equal(t, Point{}, pt)

	// The draw was not consumed
	assert.Equal(t, 0.9, noise.Float64())
}

func TestAt_LumpSumCompoundsAnnually(t *testing.T) {
	fund := testingpkg.NewFund(1, "Fund", 15, 10, 15, nil)
	entry := testingpkg.NewEntry(1, fund, 10000, domain.ModeOneTime, 100)
	traj := NewProjector(NoNoise).Begin(entry)

	start, err := traj.At(0)
	require.NoError(t, err)
	assert.Equal(t, Point{Value: 10000, Invested: 10000}, start)

	pt, err := traj.At(2)
	require.NoError(t, err)
	assert.InDelta(t, 12100.0, pt.Value, 1e-6)
	assert.Equal(t, 10000.0, pt.Invested)
}

func TestBegin_NoiseDrawnOncePerEntry(t *testing.T) {
	// U = 1.0 with 20% volatility => noise = +0.10
	noise := &SequenceNoise{Values: []float64{1.0, 0.0}}
	p := NewProjector(noise)

	first := p.Begin(sipEntry(12, 20, 1000, 50))
	second := p.Begin(sipEntry(12, 20, 1000, 50))

	assert.InDelta(t, 0.10, first.Noise(), 1e-12)
	assert.InDelta(t, 0.22, first.AnnualRate(), 1e-12)
	assert.InDelta(t, -0.10, second.Noise(), 1e-12)
	assert.InDelta(t, 0.02/12, second.MonthlyRate(), 1e-12)

	// Same draw for every year of the run
	y1, err := first.At(1)
	require.NoError(t, err)
	y1Again, err := first.At(1)
	require.NoError(t, err)
	assert.Equal(t, y1, y1Again)
}

func TestBegin_DefaultsWhenStatisticsMissing(t *testing.T) {
	entry := sipEntry(0, 0, 1000, 100)
	entry.Fund.Return3Y = nil
	entry.Fund.StdDev = nil

	traj := NewProjector(ConstantNoise(1.0)).Begin(entry)

	assert.InDelta(t, 0.075, traj.Noise(), 1e-12, "15% default volatility")
	assert.InDelta(t, 0.195, traj.AnnualRate(), 1e-12, "12% default return")
}

func TestBegin_ExplicitZeroVolatilityMeansNoNoise(t *testing.T) {
	traj := NewProjector(ConstantNoise(0.99)).Begin(sipEntry(12, 0, 1000, 100))
	assert.Equal(t, 0.0, traj.Noise())
}

func TestAt_NonFiniteIsComputationError(t *testing.T) {
	fund := testingpkg.NewFund(1, "Fund", 15, math.MaxFloat64, 0, nil)
	entry := testingpkg.NewEntry(1, fund, 1000, domain.ModeOneTime, 100)

	_, err := NewProjector(NoNoise).Begin(entry).At(30)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrComputation))
}

func TestAt_UnknownMode(t *testing.T) {
	entry := sipEntry(12, 15, 1000, 100)
	entry.Mode = "WEEKLY"

	_, err := NewProjector(NoNoise).Begin(entry).At(1)
	assert.True(t, errors.Is(err, domain.ErrInvalidEntry))
}

func TestAt_NegativeYear(t *testing.T) {
	_, err := NewProjector(NoNoise).Begin(sipEntry(12, 15, 1000, 100)).At(-1)
	assert.True(t, errors.Is(err, domain.ErrInvalidHorizon))
}

func TestDefaultNoise_InUnitInterval(t *testing.T) {
	src := DefaultNoise()
	for i := 0; i < 1000; i++ {
		u := src.Float64()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

func TestSequenceNoise_RepeatsLast(t *testing.T) {
	s := &SequenceNoise{Values: []float64{0.1, 0.2}}
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.2, s.Float64())
	assert.Equal(t, 0.5, (&SequenceNoise{}).Float64())
}
