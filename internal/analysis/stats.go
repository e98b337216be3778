package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// summary is the descriptive block shared by the sizing and frequency
// tables. Every field is NaN when the sample is empty; Std is sample
// standard deviation and NaN for a single observation.
type summary struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

func emptySummary() summary {
	nan := math.NaN()
	return summary{Mean: nan, Median: nan, Std: nan, Min: nan, Max: nan}
}

// dropNaN returns the non-NaN values. Aggregations exclude NaN from
// sums, counts of valid observations, and percentiles, while the row's
// total trade count still includes the NaN rows.
func dropNaN(values []float64) []float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// summarize computes the descriptive block over the non-NaN values.
func summarize(values []float64) summary {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return emptySummary()
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	return summary{
		Mean:   stat.Mean(clean, nil),
		Median: percentile(sorted, 0.50),
		Std:    stat.StdDev(clean, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// percentile evaluates the p-quantile of a sorted sample with linear
// interpolation between order statistics (the R-7 rule dataframe
// libraries use). gonum's Quantile kinds interpolate the empirical CDF
// instead, which shifts every interior quantile, so this is computed
// directly.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	i := int(math.Floor(h))
	if i >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(i)
	return sorted[i] + frac*(sorted[i+1]-sorted[i])
}

// sum adds the non-NaN values; an all-NaN or empty sample yields NaN so
// missing data never masquerades as a zero total.
func sum(values []float64) float64 {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, v := range clean {
		total += v
	}
	return total
}

// ratio divides, yielding NaN instead of a division error or an
// infinity when the denominator is zero.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
