package analysis

import (
	"fmt"
	"math"

	"sentrade/internal/config"
	"sentrade/pkg/contracts/domain"
)

// InsightKind classifies a structured insight record.
type InsightKind string

const (
	InsightOptimalCondition InsightKind = "optimal_condition"
	InsightRiskCondition    InsightKind = "risk_condition"
	InsightSizingBias       InsightKind = "sizing_bias"
	InsightDirectionBias    InsightKind = "direction_bias"
	InsightOvertrading      InsightKind = "overtrading"
	InsightTradingRule      InsightKind = "trading_rule"
)

// Insight is one structured finding: a kind, the group it concerns, the
// statistic that supports it, and how many trades back it. Reporting
// renders text from these records; the engine never accumulates prose.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Group   string      `json:"group"`
	Metric  string      `json:"metric"`
	Value   float64     `json:"value"`
	Support int         `json:"support"`
	Message string      `json:"message"`
}

// BuildInsights derives the structured findings from one aggregate set.
// Thresholds come from configuration so reporting stays tunable without
// touching the statistics.
func BuildInsights(set *AggregateSet, cfg config.AnalysisConfig) []Insight {
	var insights []Insight

	ranked := RankByWinRate(set.WinRates)
	insights = append(insights, conditionInsights(ranked, cfg.TopK)...)
	insights = append(insights, sizingInsight(set.Sizing)...)
	insights = append(insights, directionInsights(set.Direction, cfg)...)
	insights = append(insights, overtradingInsights(set.Frequency, cfg)...)
	insights = append(insights, tradingRules(ranked, cfg)...)

	return insights
}

// DirectionEdgeInsight compares overall long and short win rates across
// the whole merged table and emits a record when one side outperforms
// the other by more than the configured edge. It complements the
// per-regime direction ratios, which only look at trade mix.
func DirectionEdgeInsight(merged []domain.MergedTrade, cfg config.AnalysisConfig) []Insight {
	var longWins, longTotal, shortWins, shortTotal int
	for _, t := range merged {
		if t.IsLong {
			longTotal++
			if t.IsWin {
				longWins++
			}
		}
		if t.IsShort {
			shortTotal++
			if t.IsWin {
				shortWins++
			}
		}
	}

	longRate := ratio(float64(longWins), float64(longTotal))
	shortRate := ratio(float64(shortWins), float64(shortTotal))
	if math.IsNaN(longRate) || math.IsNaN(shortRate) {
		return nil
	}

	edge := longRate - shortRate
	if math.Abs(edge) <= cfg.DirectionEdge {
		return nil
	}

	side, rate, support := "long", longRate, longTotal
	if edge < 0 {
		side, rate, support = "short", shortRate, shortTotal
	}
	return []Insight{{
		Kind:    InsightDirectionBias,
		Group:   side,
		Metric:  "win_rate_edge",
		Value:   math.Abs(edge),
		Support: support,
		Message: fmt.Sprintf("%s trades win %.1f%% vs %.1f%% on the other side", side, rate*100, math.Min(longRate, shortRate)*100),
	}}
}

// conditionInsights names the k best and k worst regimes by win rate.
// A regime already named optimal is never also named a risk.
func conditionInsights(ranked []RankedGroup, k int) []Insight {
	if k < 1 {
		k = 1
	}

	var insights []Insight
	top := TopK(ranked, k)
	named := make(map[string]bool, len(top))

	for _, g := range top {
		named[g.Group] = true
		insights = append(insights, Insight{
			Kind:    InsightOptimalCondition,
			Group:   g.Group,
			Metric:  "win_rate",
			Value:   g.WinRate,
			Support: g.Total,
			Message: fmt.Sprintf("highest win rate %.1f%% over %d trades during %s", g.WinRate*100, g.Total, g.Group),
		})
	}

	// A single active regime is its own best and worst; skip the
	// redundant risk record.
	if len(ranked) < 2 {
		return insights
	}

	for _, g := range BottomK(ranked, k) {
		if named[g.Group] {
			continue
		}
		insights = append(insights, Insight{
			Kind:    InsightRiskCondition,
			Group:   g.Group,
			Metric:  "win_rate",
			Value:   g.WinRate,
			Support: g.Total,
			Message: fmt.Sprintf("lowest win rate %.1f%% over %d trades during %s", g.WinRate*100, g.Total, g.Group),
		})
	}

	return insights
}

// sizingInsight flags the regime where positions run largest.
func sizingInsight(rows []SizingRow) []Insight {
	best := -1
	for i, row := range rows {
		if math.IsNaN(row.Mean) {
			continue
		}
		if best == -1 || row.Mean > rows[best].Mean {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	row := rows[best]
	return []Insight{{
		Kind:    InsightSizingBias,
		Group:   row.Group,
		Metric:  "mean_size_quote",
		Value:   row.Mean,
		Support: row.Trades,
		Message: fmt.Sprintf("largest average position %.2f during %s", row.Mean, row.Group),
	}}
}

// directionInsights flags regimes with a lopsided long/short mix.
func directionInsights(rows []DirectionRow, cfg config.AnalysisConfig) []Insight {
	var insights []Insight
	for _, row := range rows {
		switch {
		case !math.IsNaN(row.LongPct) && row.LongPct > cfg.DirectionBias:
			insights = append(insights, Insight{
				Kind:    InsightDirectionBias,
				Group:   row.Group,
				Metric:  "long_pct",
				Value:   row.LongPct,
				Support: row.Total,
				Message: fmt.Sprintf("%.1f%% of trades are long during %s", row.LongPct, row.Group),
			})
		case !math.IsNaN(row.ShortPct) && row.ShortPct > cfg.DirectionBias:
			insights = append(insights, Insight{
				Kind:    InsightDirectionBias,
				Group:   row.Group,
				Metric:  "short_pct",
				Value:   row.ShortPct,
				Support: row.Total,
				Message: fmt.Sprintf("%.1f%% of trades are short during %s", row.ShortPct, row.Group),
			})
		}
	}
	return insights
}

// overtradingInsights flags regimes whose daily trade count runs well
// above the cross-regime average.
func overtradingInsights(rows []FrequencyRow, cfg config.AnalysisConfig) []Insight {
	means := make([]float64, 0, len(rows))
	for _, row := range rows {
		means = append(means, row.MeanDaily)
	}
	overall := summarize(means).Mean
	if math.IsNaN(overall) || overall == 0 {
		return nil
	}

	var insights []Insight
	for _, row := range rows {
		if math.IsNaN(row.MeanDaily) {
			continue
		}
		if row.MeanDaily > overall*cfg.OvertradeFactor {
			insights = append(insights, Insight{
				Kind:    InsightOvertrading,
				Group:   row.Group,
				Metric:  "mean_daily_trades",
				Value:   row.MeanDaily,
				Support: row.ActiveDays,
				Message: fmt.Sprintf("%.1f trades/day during %s vs %.1f overall", row.MeanDaily, row.Group, overall),
			})
		}
	}
	return insights
}

// tradingRules turns the win-rate ranking into actionable favor/avoid
// records per the configured thresholds.
func tradingRules(ranked []RankedGroup, cfg config.AnalysisConfig) []Insight {
	var insights []Insight
	for _, g := range ranked {
		switch {
		case g.WinRate >= cfg.HighWinRate:
			insights = append(insights, Insight{
				Kind:    InsightTradingRule,
				Group:   g.Group,
				Metric:  "win_rate",
				Value:   g.WinRate,
				Support: g.Total,
				Message: fmt.Sprintf("favor trading during %s (win rate %.1f%%)", g.Group, g.WinRate*100),
			})
		case g.WinRate < cfg.LowWinRate:
			insights = append(insights, Insight{
				Kind:    InsightTradingRule,
				Group:   g.Group,
				Metric:  "win_rate",
				Value:   g.WinRate,
				Support: g.Total,
				Message: fmt.Sprintf("reduce exposure during %s (win rate %.1f%%)", g.Group, g.WinRate*100),
			})
		}
	}
	return insights
}
