package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sentrade/pkg/contracts/domain"
)

// Engine computes the aggregate statistic families over a classified
// merged table. The merged slice is never mutated; each table is an
// independent read, so the tables are computed concurrently and
// collected into fixed fields so scheduling never affects values.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an aggregation engine. A nil logger falls back to
// slog.Default.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// groupKeys returns the canonical group labels for a dimension in
// severity order. Every table iterates this slice, so row ordering and
// ranking tie-breaks never depend on map iteration order.
func groupKeys(dim GroupDimension) ([]string, error) {
	switch dim {
	case GroupByClass:
		classes := domain.Classes()
		keys := make([]string, len(classes))
		for i, c := range classes {
			keys[i] = string(c)
		}
		return keys, nil
	case GroupByRange:
		ranges := domain.Ranges()
		keys := make([]string, len(ranges))
		for i, r := range ranges {
			keys[i] = string(r)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unknown group dimension %q", dim)
	}
}

// groupLabel returns the trade's label on the dimension, empty when the
// trade's sentiment is unknown or unclassified. Trades with an empty
// label are excluded from every grouped table; they still count in the
// pipeline's unresolved-row signal.
func groupLabel(t domain.MergedTrade, dim GroupDimension) string {
	if dim == GroupByClass {
		return string(t.SentimentClass)
	}
	return string(t.SentimentRange)
}

// partition splits the merged table into per-group slices, preserving
// input order within each group.
func partition(merged []domain.MergedTrade, dim GroupDimension) map[string][]domain.MergedTrade {
	groups := make(map[string][]domain.MergedTrade)
	for _, t := range merged {
		label := groupLabel(t, dim)
		if label == "" {
			continue
		}
		groups[label] = append(groups[label], t)
	}
	return groups
}

// Aggregate computes every statistic family for one grouping dimension.
// Each returned table has exactly one row per canonical group whether
// or not the group saw trades; empty groups carry NaN statistics.
func (e *Engine) Aggregate(ctx context.Context, merged []domain.MergedTrade, dim GroupDimension) (*AggregateSet, error) {
	keys, err := groupKeys(dim)
	if err != nil {
		return nil, err
	}

	groups := partition(merged, dim)
	set := &AggregateSet{Dimension: dim}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		set.WinRates = winRateTable(keys, groups)
		return nil
	})
	g.Go(func() error {
		set.Sizing = sizingTable(keys, groups)
		return nil
	})
	g.Go(func() error {
		set.Direction = directionTable(keys, groups)
		return nil
	})
	g.Go(func() error {
		set.Frequency = frequencyTable(keys, groups)
		return nil
	})
	g.Go(func() error {
		set.Distribution = distributionTable(keys, groups)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("aggregation complete",
		"dimension", string(dim),
		"groups", len(groups),
		"trades", len(merged))

	return set, nil
}

func winRateTable(keys []string, groups map[string][]domain.MergedTrade) []WinRateRow {
	rows := make([]WinRateRow, 0, len(keys))
	for _, key := range keys {
		trades := groups[key]
		row := WinRateRow{Group: key, Total: len(trades)}

		pnls := make([]float64, 0, len(trades))
		for _, t := range trades {
			if t.IsWin {
				row.Wins++
			}
			if t.IsLoss {
				row.Losses++
			}
			pnls = append(pnls, t.NetPnL)
		}

		row.WinRate = ratio(float64(row.Wins), float64(row.Total))
		row.TotalNetPnL = sum(pnls)
		s := summarize(pnls)
		row.MeanNetPnL = s.Mean
		row.MedianNetPnL = s.Median

		rows = append(rows, row)
	}
	return rows
}

func sizingTable(keys []string, groups map[string][]domain.MergedTrade) []SizingRow {
	rows := make([]SizingRow, 0, len(keys))
	for _, key := range keys {
		trades := groups[key]
		sizes := make([]float64, 0, len(trades))
		for _, t := range trades {
			sizes = append(sizes, t.SizeQuote)
		}

		s := summarize(sizes)
		rows = append(rows, SizingRow{
			Group:  key,
			Trades: len(trades),
			Mean:   s.Mean,
			Median: s.Median,
			Std:    s.Std,
			Min:    s.Min,
			Max:    s.Max,
		})
	}
	return rows
}

func directionTable(keys []string, groups map[string][]domain.MergedTrade) []DirectionRow {
	rows := make([]DirectionRow, 0, len(keys))
	for _, key := range keys {
		trades := groups[key]
		row := DirectionRow{Group: key, Total: len(trades)}
		for _, t := range trades {
			if t.IsLong {
				row.Longs++
			}
			if t.IsShort {
				row.Shorts++
			}
		}
		row.LongPct = ratio(float64(row.Longs)*100, float64(row.Total))
		row.ShortPct = ratio(float64(row.Shorts)*100, float64(row.Total))
		rows = append(rows, row)
	}
	return rows
}
