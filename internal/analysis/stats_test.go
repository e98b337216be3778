package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, s.Mean, 1e-9)
	assert.InDelta(t, 4.5, s.Median, 1e-9)
	assert.InDelta(t, 2.13809, s.Std, 1e-4, "sample standard deviation")
	assert.InDelta(t, 2, s.Min, 1e-9)
	assert.InDelta(t, 9, s.Max, 1e-9)
}

func TestSummarizeSkipsNaN(t *testing.T) {
	s := summarize([]float64{1, math.NaN(), 3})
	assert.InDelta(t, 2, s.Mean, 1e-9)
	assert.InDelta(t, 2, s.Median, 1e-9)
	assert.InDelta(t, 1, s.Min, 1e-9)
	assert.InDelta(t, 3, s.Max, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	for _, values := range [][]float64{nil, {math.NaN(), math.NaN()}} {
		s := summarize(values)
		assert.True(t, math.IsNaN(s.Mean))
		assert.True(t, math.IsNaN(s.Median))
		assert.True(t, math.IsNaN(s.Std))
		assert.True(t, math.IsNaN(s.Min))
		assert.True(t, math.IsNaN(s.Max))
	}
}

func TestSummarizeSingleValueStdIsNaN(t *testing.T) {
	s := summarize([]float64{5})
	assert.InDelta(t, 5, s.Mean, 1e-9)
	assert.True(t, math.IsNaN(s.Std), "sample std of one observation is undefined")
}

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 1.75},
		{0.5, 2.5},
		{0.75, 3.25},
		{1, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, percentile(sorted, tt.p), 1e-9, "p=%v", tt.p)
	}

	assert.InDelta(t, 2, percentile([]float64{1, 2, 3}, 0.5), 1e-9, "odd-length median is the middle value")
	assert.True(t, math.IsNaN(percentile(nil, 0.5)))
}

func TestSum(t *testing.T) {
	assert.InDelta(t, 6, sum([]float64{1, 2, 3}), 1e-9)
	assert.InDelta(t, 4, sum([]float64{1, math.NaN(), 3}), 1e-9)
	assert.True(t, math.IsNaN(sum(nil)), "empty sum is NaN, not zero")
	assert.True(t, math.IsNaN(sum([]float64{math.NaN()})))
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 0.5, ratio(1, 2), 1e-9)
	assert.True(t, math.IsNaN(ratio(1, 0)), "division by zero yields NaN, never panics")
}
