package dataset

import (
	"math"
	"time"

	"sentrade/pkg/contracts/domain"
)

// JoinResult is the merged table plus the data-quality signal the
// pipeline reports. UnresolvedRows counts trades whose sentiment stayed
// null after the fill; that is a warning, never an error.
type JoinResult struct {
	Merged         []domain.MergedTrade
	UnresolvedRows int
}

// JoinSentiment left-joins each trade onto the sentiment map by
// calendar date and annotates the derived regime bucket.
//
// Every trade is retained whether or not its date matched, so the
// output has exactly the input's length and order. The fill is
// deliberately narrow: it operates within trades sharing the same date,
// so a date with a sentiment record fills all of its trades, and a date
// without one leaves its trades null. Missing calendar days are NOT
// bridged from neighboring days.
func JoinSentiment(trades []domain.Trade, sentiment map[time.Time]domain.SentimentRecord) JoinResult {
	result := JoinResult{Merged: make([]domain.MergedTrade, 0, len(trades))}

	for _, trade := range trades {
		merged := domain.MergedTrade{
			Trade:          trade,
			SentimentScore: math.NaN(),
			SentimentClass: domain.ClassUnknown,
			SentimentRange: domain.RangeUnclassified,
		}

		if rec, ok := sentiment[trade.TradeDate]; ok {
			merged.SentimentScore = rec.Score
			merged.SentimentClass = rec.Class
			merged.SentimentRange, _ = domain.BucketForScore(rec.Score)
		} else {
			result.UnresolvedRows++
		}

		result.Merged = append(result.Merged, merged)
	}

	return result
}
