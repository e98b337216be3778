package analysis

import (
	"sort"
	"time"

	"sentrade/pkg/contracts/domain"
)

// frequencyTable summarizes daily trading intensity per group. The
// aggregation is two-level: trades are first counted within each
// (date, group) pair, then the distribution of those per-day counts is
// summarized across the group's active days. Collapsing straight to a
// per-group trade count would change the statistic's meaning, so the
// day level is kept.
func frequencyTable(keys []string, groups map[string][]domain.MergedTrade) []FrequencyRow {
	rows := make([]FrequencyRow, 0, len(keys))
	for _, key := range keys {
		counts := dailyCounts(groups[key])

		s := summarize(counts)
		rows = append(rows, FrequencyRow{
			Group:       key,
			ActiveDays:  len(counts),
			MeanDaily:   s.Mean,
			MedianDaily: s.Median,
			StdDaily:    s.Std,
			MinDaily:    s.Min,
			MaxDaily:    s.Max,
		})
	}
	return rows
}

// dailyCounts returns the trade count of each calendar day the group
// was active on, in date order.
func dailyCounts(trades []domain.MergedTrade) []float64 {
	perDay := make(map[time.Time]int)
	for _, t := range trades {
		perDay[t.TradeDate]++
	}

	days := make([]time.Time, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	counts := make([]float64, 0, len(days))
	for _, day := range days {
		counts = append(counts, float64(perDay[day]))
	}
	return counts
}
