package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentrade/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tradeOn(date time.Time) domain.Trade {
	return domain.Trade{RawTradeRecord: domain.RawTradeRecord{TradeDate: date}}
}

func TestJoinSentimentAnnotatesMatchedDates(t *testing.T) {
	sentiment := map[time.Time]domain.SentimentRecord{
		day(2024, 1, 1): {Date: day(2024, 1, 1), Score: 15, Class: domain.ClassExtremeFear},
	}
	trades := []domain.Trade{
		tradeOn(day(2024, 1, 1)),
		tradeOn(day(2024, 1, 1)),
	}

	result := JoinSentiment(trades, sentiment)
	require.Len(t, result.Merged, 2)
	assert.Equal(t, 0, result.UnresolvedRows)

	for _, m := range result.Merged {
		assert.InDelta(t, 15, m.SentimentScore, 1e-9)
		assert.Equal(t, domain.ClassExtremeFear, m.SentimentClass)
		assert.Equal(t, domain.RangeExtremeFear, m.SentimentRange)
		assert.True(t, m.HasSentiment())
	}
}

func TestJoinSentimentRetainsEveryTrade(t *testing.T) {
	// The row count must hold even when the lookup fails for every date.
	trades := []domain.Trade{
		tradeOn(day(2024, 1, 1)),
		tradeOn(day(2024, 1, 2)),
		tradeOn(day(2024, 1, 3)),
	}

	result := JoinSentiment(trades, map[time.Time]domain.SentimentRecord{})
	require.Len(t, result.Merged, len(trades))
	assert.Equal(t, 3, result.UnresolvedRows)

	for i, m := range result.Merged {
		assert.Equal(t, trades[i].TradeDate, m.TradeDate, "input order preserved")
		assert.True(t, math.IsNaN(m.SentimentScore))
		assert.Equal(t, domain.ClassUnknown, m.SentimentClass)
		assert.Equal(t, domain.RangeUnclassified, m.SentimentRange)
		assert.False(t, m.HasSentiment())
	}
}

func TestJoinSentimentFillIsPerDate(t *testing.T) {
	// A covered date fills all of its trades; an uncovered date between
	// two covered ones stays null rather than borrowing a neighbor's
	// value.
	sentiment := map[time.Time]domain.SentimentRecord{
		day(2024, 1, 1): {Date: day(2024, 1, 1), Score: 15, Class: domain.ClassExtremeFear},
		day(2024, 1, 3): {Date: day(2024, 1, 3), Score: 85, Class: domain.ClassExtremeGreed},
	}
	trades := []domain.Trade{
		tradeOn(day(2024, 1, 1)),
		tradeOn(day(2024, 1, 2)),
		tradeOn(day(2024, 1, 3)),
	}

	result := JoinSentiment(trades, sentiment)
	require.Len(t, result.Merged, 3)
	assert.Equal(t, 1, result.UnresolvedRows)

	assert.Equal(t, domain.ClassExtremeFear, result.Merged[0].SentimentClass)
	assert.Equal(t, domain.ClassUnknown, result.Merged[1].SentimentClass)
	assert.True(t, math.IsNaN(result.Merged[1].SentimentScore))
	assert.Equal(t, domain.ClassExtremeGreed, result.Merged[2].SentimentClass)
}

func TestJoinSentimentBucketsFromScoreNotClass(t *testing.T) {
	// The range annotation derives from the numeric score, so a record
	// whose label disagrees with its score still buckets by score.
	sentiment := map[time.Time]domain.SentimentRecord{
		day(2024, 1, 1): {Date: day(2024, 1, 1), Score: 35, Class: domain.ClassNeutral},
	}

	result := JoinSentiment([]domain.Trade{tradeOn(day(2024, 1, 1))}, sentiment)
	require.Len(t, result.Merged, 1)
	assert.Equal(t, domain.RangeFear, result.Merged[0].SentimentRange)
	assert.Equal(t, domain.ClassNeutral, result.Merged[0].SentimentClass)
}

func TestJoinSentimentNaNScoreStaysUnclassified(t *testing.T) {
	sentiment := map[time.Time]domain.SentimentRecord{
		day(2024, 1, 1): {Date: day(2024, 1, 1), Score: math.NaN(), Class: domain.ClassFear},
	}

	result := JoinSentiment([]domain.Trade{tradeOn(day(2024, 1, 1))}, sentiment)
	require.Len(t, result.Merged, 1)
	assert.Equal(t, domain.RangeUnclassified, result.Merged[0].SentimentRange)
	assert.Equal(t, 0, result.UnresolvedRows, "a matched date is resolved even with a NaN score")
}

func TestJoinSentimentEmptyInput(t *testing.T) {
	result := JoinSentiment(nil, map[time.Time]domain.SentimentRecord{})
	assert.Empty(t, result.Merged)
	assert.Equal(t, 0, result.UnresolvedRows)
}
