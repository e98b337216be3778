package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sentrade/pkg/contracts/domain"
)

func TestOneWayANOVA(t *testing.T) {
	groups := [][]float64{
		{1, 2, 3},
		{2, 3, 4},
	}

	result := OneWayANOVA(groups)
	assert.Equal(t, 1, result.DFBetween)
	assert.Equal(t, 4, result.DFWithin)
	assert.Equal(t, 6, result.N)
	assert.InDelta(t, 1.5, result.F, 1e-9)
	assert.InDelta(t, 0.2879, result.PValue, 1e-3)
}

func TestOneWayANOVAInsufficientGroups(t *testing.T) {
	result := OneWayANOVA([][]float64{{1, 2, 3}})
	assert.True(t, math.IsNaN(result.F))
	assert.True(t, math.IsNaN(result.PValue))
}

func TestOneWayANOVAZeroWithinVariance(t *testing.T) {
	result := OneWayANOVA([][]float64{{1, 1}, {2, 2}})
	assert.True(t, math.IsNaN(result.F), "degenerate within-group variance yields NaN, not +Inf")
}

func TestChiSquareIndependence(t *testing.T) {
	observed := [][]float64{
		{10, 20},
		{20, 10},
	}

	result := ChiSquareIndependence(observed)
	assert.Equal(t, 1, result.DF)
	assert.Equal(t, 60, result.N)
	assert.InDelta(t, 6.6667, result.Statistic, 1e-3)
	assert.InDelta(t, 0.0098, result.PValue, 1e-3)
}

func TestChiSquareDropsEmptyMargins(t *testing.T) {
	// The all-zero row and column must not produce zero expected counts.
	observed := [][]float64{
		{10, 20, 0},
		{0, 0, 0},
		{20, 10, 0},
	}

	result := ChiSquareIndependence(observed)
	assert.Equal(t, 1, result.DF)
	assert.InDelta(t, 6.6667, result.Statistic, 1e-3)
}

func TestChiSquareDegenerateTable(t *testing.T) {
	result := ChiSquareIndependence([][]float64{{5, 5}})
	assert.True(t, math.IsNaN(result.Statistic))
	assert.True(t, math.IsNaN(result.PValue))
}

func TestPearsonCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{1, 2, 3, 4, 6}

	result := PearsonCorrelation(xs, ys)
	assert.Equal(t, 5, result.N)
	assert.InDelta(t, 0.9864, result.R, 1e-3)
	assert.Greater(t, result.PValue, 0.0)
	assert.Less(t, result.PValue, 0.01)
}

func TestPearsonCorrelationPerfectFit(t *testing.T) {
	xs := []float64{1, 2, 3}
	ys := []float64{2, 4, 6}

	result := PearsonCorrelation(xs, ys)
	assert.InDelta(t, 1, result.R, 1e-9)
	assert.True(t, math.IsNaN(result.PValue), "p-value undefined at |r| = 1")
}

func TestPearsonCorrelationTooFewPairs(t *testing.T) {
	result := PearsonCorrelation([]float64{1}, []float64{2})
	assert.True(t, math.IsNaN(result.R))
	assert.True(t, math.IsNaN(result.PValue))
}

func TestRunStatTestsSkipsUnresolvedRows(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), -5, 200, false, true, 15, domain.ClassExtremeFear),
		mergedTrade(day(2), 20, 150, true, false, 85, domain.ClassExtremeGreed),
		mergedTrade(day(3), 7, 120, true, false, math.NaN(), domain.ClassUnknown),
	}

	tests := RunStatTests(merged)
	assert.Equal(t, 3, tests.PnLByClass.N, "unknown-class row excluded")
	assert.Equal(t, 3, tests.DirectionVsClass.N)
	assert.Equal(t, 3, tests.SizeVsSentiment.N, "NaN-score row excluded from the correlation")
}
