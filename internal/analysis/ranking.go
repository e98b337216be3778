package analysis

import (
	"math"
	"sort"
)

// RankedGroup is one sentiment group's position in the win-rate
// ordering.
type RankedGroup struct {
	Group   string  `json:"group"`
	WinRate float64 `json:"win_rate"`
	Total   int     `json:"total"`
}

// RankByWinRate orders the groups by win rate descending. Groups with a
// NaN win rate (no trades) are omitted: a regime with no data is
// neither a best nor a worst condition. The sort is stable over the
// input's severity order, so ties always resolve to the more fearful
// group and the ordering is identical across runs.
func RankByWinRate(rows []WinRateRow) []RankedGroup {
	ranked := make([]RankedGroup, 0, len(rows))
	for _, row := range rows {
		if math.IsNaN(row.WinRate) {
			continue
		}
		ranked = append(ranked, RankedGroup{
			Group:   row.Group,
			WinRate: row.WinRate,
			Total:   row.Total,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WinRate > ranked[j].WinRate
	})
	return ranked
}

// TopK returns the best k groups of a ranking, fewer when the ranking
// is shorter.
func TopK(ranked []RankedGroup, k int) []RankedGroup {
	if k > len(ranked) {
		k = len(ranked)
	}
	if k < 0 {
		k = 0
	}
	return ranked[:k]
}

// BottomK returns the worst k groups, worst first. Ties resolve to
// severity order the same way TopK's do: the ascending sort is stable,
// so equal win rates keep their relative order instead of mirroring the
// descending ranking.
func BottomK(ranked []RankedGroup, k int) []RankedGroup {
	if k > len(ranked) {
		k = len(ranked)
	}
	if k < 0 {
		k = 0
	}

	ascending := append([]RankedGroup(nil), ranked...)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].WinRate < ascending[j].WinRate
	})
	return ascending[:k]
}
