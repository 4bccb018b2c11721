package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFutureValueAnnuityDue(t *testing.T) {
	tests := []struct {
		name      string
		payment   float64
		rate      float64
		periods   int
		expected  float64
		tolerance float64
	}{
		{
			name:      "one year at 1% monthly",
			payment:   1000,
			rate:      0.01,
			periods:   12,
			expected:  1000 * (math.Pow(1.01, 12) - 1) / 0.01 * 1.01,
			tolerance: 1e-9,
		},
		{
			name:      "known value",
			payment:   1000,
			rate:      0.01,
			periods:   12,
			expected:  12809.33,
			tolerance: 0.01,
		},
		{
			name:      "zero rate is plain sum",
			payment:   500,
			rate:      0,
			periods:   24,
			expected:  12000,
			tolerance: 0,
		},
		{
			name:      "no periods",
			payment:   500,
			rate:      0.01,
			periods:   0,
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "negative rate still defined",
			payment:   1000,
			rate:      -0.005,
			periods:   12,
			expected:  1000 * (math.Pow(0.995, 12) - 1) / -0.005 * 0.995,
			tolerance: 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FutureValueAnnuityDue(tt.payment, tt.rate, tt.periods)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestFutureValueLumpSum(t *testing.T) {
	assert.InDelta(t, 12100.0, FutureValueLumpSum(10000, 0.10, 2), 1e-6)
	assert.Equal(t, 10000.0, FutureValueLumpSum(10000, 0, 5))
	assert.Equal(t, 10000.0, FutureValueLumpSum(10000, 0.10, 0))
}

func TestCAGR(t *testing.T) {
	assert.InDelta(t, 0.10, CAGR(10000, 12100, 2), 1e-9)
	assert.InDelta(t, 10.0, CAGRPercent(10000, 12100, 2), 1e-7)
	assert.Equal(t, 0.0, CAGR(0, 5000, 3), "zero start has no rate")
	assert.Equal(t, 0.0, CAGR(1000, 5000, 0), "zero horizon has no rate")
	assert.InDelta(t, 0.0, CAGR(1000, 1000, 7), 1e-12)
}

func TestWeightedMean(t *testing.T) {
	assert.InDelta(t, 16.0, WeightedMean([]float64{10, 20}, []float64{40, 60}), 1e-9)
	assert.Equal(t, 0.0, WeightedMean(nil, nil))
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, WeightedMean([]float64{1, 2}, []float64{0, 0}))
	assert.InDelta(t, 1.5, Mean([]float64{1, 2}), 1e-12)
	assert.Equal(t, 6.0, Sum([]float64{1, 2, 3}))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 12809.0, RoundWhole(12809.33))
	assert.Equal(t, 13.0, RoundWhole(12.5))
	assert.Equal(t, -13.0, RoundWhole(-12.5))
	assert.Equal(t, 1.23, RoundPlaces(1.234, 2))
	assert.True(t, math.IsNaN(RoundWhole(math.NaN())))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "3.10", FormatFixed(3.1, 2))
	assert.Equal(t, "0.00", FormatFixed(0, 2))
	assert.Equal(t, "-0.50", FormatFixed(-0.5, 2))
	assert.Equal(t, "7.13", FormatFixed(7.125, 2))
	assert.Equal(t, "0.00", FormatFixed(math.Inf(1), 2))
}
