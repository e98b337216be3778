package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"sentrade/pkg/contracts/domain"
)

// ANOVAResult is a one-way analysis of variance across sentiment
// groups. F and PValue are NaN when fewer than two groups have data or
// there are no within-group degrees of freedom.
type ANOVAResult struct {
	F         float64 `json:"f"`
	PValue    float64 `json:"p_value"`
	DFBetween int     `json:"df_between"`
	DFWithin  int     `json:"df_within"`
	Groups    int     `json:"groups"`
	N         int     `json:"n"`
}

// ChiSquareResult is a chi-square test of independence over a
// contingency table.
type ChiSquareResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	DF        int     `json:"df"`
	N         int     `json:"n"`
}

// CorrelationResult is a Pearson correlation with its two-sided
// p-value.
type CorrelationResult struct {
	R      float64 `json:"r"`
	PValue float64 `json:"p_value"`
	N      int     `json:"n"`
}

// StatTests bundles the hypothesis tests run over the merged table.
type StatTests struct {
	PnLByClass       ANOVAResult       `json:"pnl_by_class"`
	DirectionVsClass ChiSquareResult   `json:"direction_vs_class"`
	SizeVsSentiment  CorrelationResult `json:"size_vs_sentiment"`
}

// RunStatTests runs the three standard tests: ANOVA of net P&L across
// sentiment classes, chi-square of collapsed direction against class,
// and Pearson correlation of quote size against the numeric score.
// Rows without a resolved sentiment class are excluded throughout.
func RunStatTests(merged []domain.MergedTrade) StatTests {
	return StatTests{
		PnLByClass:       pnlANOVA(merged),
		DirectionVsClass: directionChiSquare(merged),
		SizeVsSentiment:  sizeScoreCorrelation(merged),
	}
}

func pnlANOVA(merged []domain.MergedTrade) ANOVAResult {
	byClass := make(map[domain.SentimentClass][]float64)
	for _, t := range merged {
		if t.SentimentClass == domain.ClassUnknown || math.IsNaN(t.NetPnL) {
			continue
		}
		byClass[t.SentimentClass] = append(byClass[t.SentimentClass], t.NetPnL)
	}

	groups := make([][]float64, 0, len(byClass))
	for _, class := range domain.Classes() {
		if sample := byClass[class]; len(sample) > 0 {
			groups = append(groups, sample)
		}
	}
	return OneWayANOVA(groups)
}

// OneWayANOVA computes the F statistic and p-value across the sample
// groups. Empty groups must already be removed.
func OneWayANOVA(groups [][]float64) ANOVAResult {
	nan := math.NaN()
	result := ANOVAResult{F: nan, PValue: nan, Groups: len(groups)}

	var all []float64
	for _, g := range groups {
		all = append(all, g...)
		result.N += len(g)
	}

	result.DFBetween = len(groups) - 1
	result.DFWithin = result.N - len(groups)
	if result.DFBetween < 1 || result.DFWithin < 1 {
		return result
	}

	grandMean := stat.Mean(all, nil)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		groupMean := stat.Mean(g, nil)
		diff := groupMean - grandMean
		ssBetween += float64(len(g)) * diff * diff
		for _, v := range g {
			d := v - groupMean
			ssWithin += d * d
		}
	}

	msBetween := ssBetween / float64(result.DFBetween)
	msWithin := ssWithin / float64(result.DFWithin)
	if msWithin == 0 {
		return result
	}

	result.F = msBetween / msWithin
	dist := distuv.F{D1: float64(result.DFBetween), D2: float64(result.DFWithin)}
	result.PValue = dist.Survival(result.F)
	return result
}

func directionChiSquare(merged []domain.MergedTrade) ChiSquareResult {
	classes := domain.Classes()
	classIndex := make(map[domain.SentimentClass]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}
	types := domain.TradeTypes()
	typeIndex := make(map[domain.TradeType]int, len(types))
	for i, tt := range types {
		typeIndex[tt] = i
	}

	table := make([][]float64, len(classes))
	for i := range table {
		table[i] = make([]float64, len(types))
	}
	for _, t := range merged {
		ci, ok := classIndex[t.SentimentClass]
		if !ok || t.SentimentClass == domain.ClassUnknown {
			continue
		}
		table[ci][typeIndex[t.Type()]]++
	}
	return ChiSquareIndependence(table)
}

// ChiSquareIndependence tests row/column independence of a contingency
// table of observed counts. Rows and columns that are entirely zero are
// dropped before computing expectations.
func ChiSquareIndependence(observed [][]float64) ChiSquareResult {
	nan := math.NaN()
	result := ChiSquareResult{Statistic: nan, PValue: nan}

	table := dropEmptyMargins(observed)
	rows := len(table)
	if rows < 2 {
		return result
	}
	cols := len(table[0])
	if cols < 2 {
		return result
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	var grand float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += table[i][j]
			colTotals[j] += table[i][j]
			grand += table[i][j]
		}
	}

	var statistic float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			expected := rowTotals[i] * colTotals[j] / grand
			d := table[i][j] - expected
			statistic += d * d / expected
		}
	}

	result.Statistic = statistic
	result.DF = (rows - 1) * (cols - 1)
	result.N = int(grand)
	dist := distuv.ChiSquared{K: float64(result.DF)}
	result.PValue = dist.Survival(statistic)
	return result
}

func dropEmptyMargins(observed [][]float64) [][]float64 {
	if len(observed) == 0 {
		return nil
	}

	cols := len(observed[0])
	colHasData := make([]bool, cols)
	var kept [][]float64
	for _, row := range observed {
		rowTotal := 0.0
		for j, v := range row {
			rowTotal += v
			if v > 0 {
				colHasData[j] = true
			}
		}
		if rowTotal > 0 {
			kept = append(kept, row)
		}
	}

	var out [][]float64
	for _, row := range kept {
		trimmed := make([]float64, 0, cols)
		for j, v := range row {
			if colHasData[j] {
				trimmed = append(trimmed, v)
			}
		}
		out = append(out, trimmed)
	}
	return out
}

func sizeScoreCorrelation(merged []domain.MergedTrade) CorrelationResult {
	var xs, ys []float64
	for _, t := range merged {
		if math.IsNaN(t.SizeQuote) || math.IsNaN(t.SentimentScore) {
			continue
		}
		xs = append(xs, t.SizeQuote)
		ys = append(ys, t.SentimentScore)
	}
	return PearsonCorrelation(xs, ys)
}

// PearsonCorrelation computes the correlation coefficient and its
// two-sided p-value from the t distribution. Fewer than three pairs, or
// a degenerate |r| = 1, yield NaN p-values.
func PearsonCorrelation(xs, ys []float64) CorrelationResult {
	nan := math.NaN()
	result := CorrelationResult{R: nan, PValue: nan, N: len(xs)}
	if len(xs) != len(ys) || len(xs) < 2 {
		return result
	}

	result.R = stat.Correlation(xs, ys, nil)
	n := float64(len(xs))
	if len(xs) < 3 || math.IsNaN(result.R) || math.Abs(result.R) >= 1 {
		return result
	}

	t := result.R * math.Sqrt((n-2)/(1-result.R*result.R))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	result.PValue = 2 * dist.Survival(math.Abs(t))
	return result
}
