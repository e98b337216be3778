package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrade/pkg/contracts/domain"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// mergedTrade builds a classified trade the way the pipeline would:
// derived flags from net P&L and direction, range bucket from score.
func mergedTrade(date time.Time, netPnL, sizeQuote float64, long, short bool, score float64, class domain.SentimentClass) domain.MergedTrade {
	rng, _ := domain.BucketForScore(score)
	return domain.MergedTrade{
		Trade: domain.Trade{
			RawTradeRecord: domain.RawTradeRecord{
				TradeDate: date,
				SizeQuote: sizeQuote,
			},
			NetPnL:  netPnL,
			IsWin:   netPnL > 0,
			IsLoss:  netPnL < 0,
			IsLong:  long,
			IsShort: short,
		},
		SentimentScore: score,
		SentimentClass: class,
		SentimentRange: rng,
	}
}

func findWinRate(t *testing.T, rows []WinRateRow, group string) WinRateRow {
	t.Helper()
	for _, row := range rows {
		if row.Group == group {
			return row
		}
	}
	t.Fatalf("no win-rate row for group %q", group)
	return WinRateRow{}
}

func TestAggregateEndToEndScenario(t *testing.T) {
	// Two trades on one extreme-fear day: one win (net 49), one loss
	// (net -31).
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 49, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), -31, 200, false, true, 15, domain.ClassExtremeFear),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	require.Len(t, set.WinRates, 5, "one row per canonical class")
	row := findWinRate(t, set.WinRates, string(domain.ClassExtremeFear))
	assert.Equal(t, 1, row.Wins)
	assert.Equal(t, 1, row.Losses)
	assert.Equal(t, 2, row.Total)
	assert.InDelta(t, 0.5, row.WinRate, 1e-9)
	assert.InDelta(t, 18, row.TotalNetPnL, 1e-9)
	assert.InDelta(t, 9, row.MeanNetPnL, 1e-9)
	assert.InDelta(t, 9, row.MedianNetPnL, 1e-9)
}

func TestAggregateEmptyGroupYieldsNaN(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	row := findWinRate(t, set.WinRates, string(domain.ClassGreed))
	assert.Equal(t, 0, row.Total)
	assert.True(t, math.IsNaN(row.WinRate), "empty group win rate must be NaN, not zero")
	assert.True(t, math.IsNaN(row.TotalNetPnL))
	assert.True(t, math.IsNaN(row.MeanNetPnL))

	for _, sizing := range set.Sizing {
		if sizing.Group == string(domain.ClassGreed) {
			assert.True(t, math.IsNaN(sizing.Mean))
			assert.True(t, math.IsNaN(sizing.Std))
		}
	}
}

func TestAggregateRowOrderIsSeverityOrder(t *testing.T) {
	set, err := NewEngine(nil).Aggregate(context.Background(), nil, GroupByClass)
	require.NoError(t, err)

	want := make([]string, 0, 5)
	for _, c := range domain.Classes() {
		want = append(want, string(c))
	}
	got := make([]string, 0, len(set.WinRates))
	for _, row := range set.WinRates {
		got = append(got, row.Group)
	}
	assert.Equal(t, want, got)
}

func TestAggregateExcludesUnknownSentiment(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 20, 100, true, false, math.NaN(), domain.ClassUnknown),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	total := 0
	for _, row := range set.WinRates {
		total += row.Total
	}
	assert.Equal(t, 1, total, "unknown-class trades are excluded from grouped tables")
}

func TestAggregateNaNPnLExcludedFromStatsButCounted(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), math.NaN(), 100, true, false, 15, domain.ClassExtremeFear),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	row := findWinRate(t, set.WinRates, string(domain.ClassExtremeFear))
	assert.Equal(t, 2, row.Total, "NaN P&L rows still count toward the group total")
	assert.Equal(t, 1, row.Wins)
	assert.InDelta(t, 10, row.TotalNetPnL, 1e-9, "NaN excluded from the sum")
	assert.InDelta(t, 10, row.MeanNetPnL, 1e-9, "NaN excluded from the mean")
}

func TestAggregateDirectionTable(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 1, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 1, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 1, 100, false, true, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 1, 100, false, false, 15, domain.ClassExtremeFear),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	var row DirectionRow
	for _, r := range set.Direction {
		if r.Group == string(domain.ClassExtremeFear) {
			row = r
		}
	}
	assert.Equal(t, 2, row.Longs)
	assert.Equal(t, 1, row.Shorts)
	assert.Equal(t, 4, row.Total)
	assert.InDelta(t, 50, row.LongPct, 1e-9)
	assert.InDelta(t, 25, row.ShortPct, 1e-9)
}

func TestAggregateFrequencyIsTwoLevel(t *testing.T) {
	// 3 trades on day 1 and 1 trade on day 2: daily counts {3, 1}, so
	// the mean is 2, not the flat per-group count of 4.
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 1, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 1, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), 1, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(2), 1, 100, true, false, 18, domain.ClassExtremeFear),
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	var row FrequencyRow
	for _, r := range set.Frequency {
		if r.Group == string(domain.ClassExtremeFear) {
			row = r
		}
	}
	assert.Equal(t, 2, row.ActiveDays)
	assert.InDelta(t, 2, row.MeanDaily, 1e-9)
	assert.InDelta(t, 2, row.MedianDaily, 1e-9)
	assert.InDelta(t, 1, row.MinDaily, 1e-9)
	assert.InDelta(t, 3, row.MaxDaily, 1e-9)
}

func TestAggregateByRangeUsesScoreBuckets(t *testing.T) {
	// The class label disagrees with the score: grouping by range must
	// follow the score-derived bucket, grouping by class the label.
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 35, domain.ClassNeutral),
	}

	byRange, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByRange)
	require.NoError(t, err)
	assert.Equal(t, 1, findWinRate(t, byRange.WinRates, string(domain.RangeFear)).Total)

	byClass, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)
	assert.Equal(t, 1, findWinRate(t, byClass.WinRates, string(domain.ClassNeutral)).Total)
}

func TestAggregateUnknownDimension(t *testing.T) {
	_, err := NewEngine(nil).Aggregate(context.Background(), nil, GroupDimension("bogus"))
	require.Error(t, err)
}

func TestAggregateDistributionPercentiles(t *testing.T) {
	pnls := []float64{10, 20, 30, 40, 50}
	merged := make([]domain.MergedTrade, 0, len(pnls))
	for _, p := range pnls {
		merged = append(merged, mergedTrade(day(1), p, 100, true, false, 15, domain.ClassExtremeFear))
	}

	set, err := NewEngine(nil).Aggregate(context.Background(), merged, GroupByClass)
	require.NoError(t, err)

	var row DistributionRow
	for _, r := range set.Distribution {
		if r.Group == string(domain.ClassExtremeFear) {
			row = r
		}
	}
	assert.Equal(t, 5, row.Trades)
	assert.InDelta(t, 10, row.Min, 1e-9)
	assert.InDelta(t, 20, row.P25, 1e-9)
	assert.InDelta(t, 30, row.P50, 1e-9)
	assert.InDelta(t, 40, row.P75, 1e-9)
	assert.InDelta(t, 46, row.P90, 1e-9)
	assert.InDelta(t, 48, row.P95, 1e-9)
	assert.InDelta(t, 50, row.Max, 1e-9)
}

func TestDailySummary(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(2), -5, 100, false, true, 55, domain.ClassNeutral),
		mergedTrade(day(1), 49, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(1), -31, 200, false, true, 15, domain.ClassExtremeFear),
	}

	rows := DailySummary(merged)
	require.Len(t, rows, 2)

	assert.Equal(t, day(1), rows[0].Date, "rows are in date order")
	assert.Equal(t, 2, rows[0].Trades)
	assert.Equal(t, 1, rows[0].Wins)
	assert.InDelta(t, 0.5, rows[0].WinRate, 1e-9)
	assert.InDelta(t, 18, rows[0].TotalNetPnL, 1e-9)
	assert.InDelta(t, 18, rows[0].CumulativePnL, 1e-9)
	assert.Equal(t, string(domain.ClassExtremeFear), rows[0].SentimentClass)

	assert.Equal(t, day(2), rows[1].Date)
	assert.InDelta(t, 55, rows[1].SentimentScore, 1e-9)
	assert.InDelta(t, 13, rows[1].CumulativePnL, 1e-9, "18 - 5 accumulated over the timeline")
}

func TestDailySummaryCumulativeSkipsNaNDays(t *testing.T) {
	merged := []domain.MergedTrade{
		mergedTrade(day(1), 10, 100, true, false, 15, domain.ClassExtremeFear),
		mergedTrade(day(2), math.NaN(), 100, false, false, 55, domain.ClassNeutral),
		mergedTrade(day(3), 5, 100, true, false, 75, domain.ClassGreed),
	}

	rows := DailySummary(merged)
	require.Len(t, rows, 3)

	assert.InDelta(t, 10, rows[0].CumulativePnL, 1e-9)
	assert.True(t, math.IsNaN(rows[1].CumulativePnL), "an all-NaN day has no cumulative value")
	assert.InDelta(t, 15, rows[2].CumulativePnL, 1e-9, "the NaN day does not poison the running sum")
}
