package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrade/internal/config"
	"sentrade/pkg/contracts/domain"
)

func analysisDefaults() config.AnalysisConfig {
	return config.AnalysisConfig{
		TopK:            1,
		HighWinRate:     0.55,
		LowWinRate:      0.45,
		DirectionBias:   70,
		DirectionEdge:   0.1,
		OvertradeFactor: 2,
	}
}

func kinds(insights []Insight) map[InsightKind]int {
	counts := make(map[InsightKind]int)
	for _, in := range insights {
		counts[in.Kind]++
	}
	return counts
}

func TestBuildInsights(t *testing.T) {
	nan := math.NaN()
	set := &AggregateSet{
		Dimension: GroupByClass,
		WinRates: []WinRateRow{
			{Group: "Extreme Fear", Wins: 6, Total: 10, WinRate: 0.6},
			{Group: "Fear", Wins: 4, Total: 10, WinRate: 0.4},
			{Group: "Neutral", Wins: 5, Total: 10, WinRate: 0.5},
			{Group: "Greed", Total: 0, WinRate: nan},
			{Group: "Extreme Greed", Total: 0, WinRate: nan},
		},
		Sizing: []SizingRow{
			{Group: "Extreme Fear", Trades: 10, Mean: 500},
			{Group: "Fear", Trades: 10, Mean: 900},
			{Group: "Neutral", Trades: 10, Mean: 400},
			{Group: "Greed", Mean: nan},
			{Group: "Extreme Greed", Mean: nan},
		},
		Direction: []DirectionRow{
			{Group: "Extreme Fear", Longs: 8, Shorts: 2, Total: 10, LongPct: 80, ShortPct: 20},
			{Group: "Fear", Longs: 5, Shorts: 5, Total: 10, LongPct: 50, ShortPct: 50},
			{Group: "Neutral", Longs: 2, Shorts: 8, Total: 10, LongPct: 20, ShortPct: 80},
			{Group: "Greed", LongPct: nan, ShortPct: nan},
			{Group: "Extreme Greed", LongPct: nan, ShortPct: nan},
		},
		Frequency: []FrequencyRow{
			{Group: "Extreme Fear", ActiveDays: 2, MeanDaily: 5},
			{Group: "Fear", ActiveDays: 5, MeanDaily: 1},
			{Group: "Neutral", ActiveDays: 5, MeanDaily: 1},
			{Group: "Greed", MeanDaily: nan},
			{Group: "Extreme Greed", MeanDaily: nan},
		},
	}

	insights := BuildInsights(set, analysisDefaults())
	counts := kinds(insights)

	assert.Equal(t, 1, counts[InsightOptimalCondition])
	assert.Equal(t, 1, counts[InsightRiskCondition])
	assert.Equal(t, 1, counts[InsightSizingBias])
	assert.Equal(t, 2, counts[InsightDirectionBias], "one long bias, one short bias")
	assert.Equal(t, 1, counts[InsightOvertrading], "5 trades/day vs 2.33 overall")
	assert.Equal(t, 2, counts[InsightTradingRule], "favor Extreme Fear, avoid Fear")

	for _, in := range insights {
		switch in.Kind {
		case InsightOptimalCondition:
			assert.Equal(t, "Extreme Fear", in.Group)
			assert.InDelta(t, 0.6, in.Value, 1e-9)
			assert.Equal(t, 10, in.Support)
		case InsightRiskCondition:
			assert.Equal(t, "Fear", in.Group)
		case InsightSizingBias:
			assert.Equal(t, "Fear", in.Group)
			assert.InDelta(t, 900, in.Value, 1e-9)
		case InsightOvertrading:
			assert.Equal(t, "Extreme Fear", in.Group)
		}
		assert.NotEmpty(t, in.Message)
	}
}

func TestConditionInsightsHonorTopK(t *testing.T) {
	ranked := RankByWinRate([]WinRateRow{
		{Group: "Extreme Fear", Wins: 6, Total: 10, WinRate: 0.6},
		{Group: "Fear", Wins: 4, Total: 10, WinRate: 0.4},
		{Group: "Neutral", Wins: 5, Total: 10, WinRate: 0.5},
	})

	cfg := analysisDefaults()
	cfg.TopK = 2

	counts := kinds(conditionInsights(ranked, cfg.TopK))
	assert.Equal(t, 2, counts[InsightOptimalCondition], "Extreme Fear and Neutral")
	assert.Equal(t, 1, counts[InsightRiskCondition], "Neutral is top-2, only Fear remains a risk")
}

func TestBuildInsightsSingleActiveGroup(t *testing.T) {
	nan := math.NaN()
	set := &AggregateSet{
		Dimension: GroupByClass,
		WinRates: []WinRateRow{
			{Group: "Neutral", Wins: 1, Total: 2, WinRate: 0.5},
			{Group: "Greed", WinRate: nan},
		},
		Sizing:    []SizingRow{{Group: "Neutral", Trades: 2, Mean: 100}, {Group: "Greed", Mean: nan}},
		Direction: []DirectionRow{{Group: "Neutral", Total: 2, LongPct: 50, ShortPct: 50}},
		Frequency: []FrequencyRow{{Group: "Neutral", ActiveDays: 1, MeanDaily: 2}},
	}

	insights := BuildInsights(set, analysisDefaults())
	counts := kinds(insights)

	assert.Equal(t, 1, counts[InsightOptimalCondition])
	assert.Zero(t, counts[InsightRiskCondition], "a lone group is not flagged as both best and worst")
	assert.Zero(t, counts[InsightTradingRule], "0.5 sits between the favor and avoid thresholds")
}

func TestDirectionEdgeInsight(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 20, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), -5, 100, false, true, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 5, 100, false, true, 15, domain.ClassExtremeFear),
	}

	insights := DirectionEdgeInsight(merged, analysisDefaults())
	require.Len(t, insights, 1, "longs win 100%% vs shorts 50%%")
	assert.Equal(t, InsightDirectionBias, insights[0].Kind)
	assert.Equal(t, "long", insights[0].Group)
	assert.InDelta(t, 0.5, insights[0].Value, 1e-9)
	assert.Equal(t, 2, insights[0].Support)
}

func TestDirectionEdgeInsightNeedsBothSides(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
	}
	assert.Empty(t, DirectionEdgeInsight(merged, analysisDefaults()))
}

func TestBuildInsightsEmptySet(t *testing.T) {
	nan := math.NaN()
	set := &AggregateSet{
		Dimension: GroupByClass,
		WinRates:  []WinRateRow{{Group: "Neutral", WinRate: nan}},
		Sizing:    []SizingRow{{Group: "Neutral", Mean: nan}},
		Direction: []DirectionRow{{Group: "Neutral", LongPct: nan, ShortPct: nan}},
		Frequency: []FrequencyRow{{Group: "Neutral", MeanDaily: nan}},
	}

	insights := BuildInsights(set, analysisDefaults())
	require.Empty(t, insights)
}
