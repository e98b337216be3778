package analysis

import (
	"sort"

	"sentrade/pkg/contracts/domain"
)

// distributionTable computes the five-number summary of net P&L per
// group plus the 90th and 95th percentiles. Percentiles interpolate
// linearly between order statistics; NaN P&L rows are excluded from the
// sample but still show in the row's trade count.
func distributionTable(keys []string, groups map[string][]domain.MergedTrade) []DistributionRow {
	rows := make([]DistributionRow, 0, len(keys))
	for _, key := range keys {
		trades := groups[key]
		pnls := make([]float64, 0, len(trades))
		for _, t := range trades {
			pnls = append(pnls, t.NetPnL)
		}

		sorted := dropNaN(pnls)
		sort.Float64s(sorted)

		row := DistributionRow{
			Group:  key,
			Trades: len(trades),
			Min:    percentile(sorted, 0),
			P25:    percentile(sorted, 0.25),
			P50:    percentile(sorted, 0.50),
			P75:    percentile(sorted, 0.75),
			P90:    percentile(sorted, 0.90),
			P95:    percentile(sorted, 0.95),
			Max:    percentile(sorted, 1),
		}
		rows = append(rows, row)
	}
	return rows
}
