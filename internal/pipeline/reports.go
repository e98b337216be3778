package pipeline

import (
	"fmt"

	"sentrade/internal/exporter"
)

// WriteReports persists a run's artifacts under the configured output
// directory: the merged snapshot (unless disabled), both aggregate
// families, the insights, the test results, the daily summary, and a
// line in the append-only run log.
func (p *Pipeline) WriteReports(result *Result) error {
	exp := exporter.NewReportExporter(p.cfg.Output.Dir)

	if p.cfg.Output.WriteMerged {
		if err := exp.ExportMergedTrades(result.Merged); err != nil {
			return fmt.Errorf("write merged snapshot: %w", err)
		}
	}
	if err := exp.ExportAggregates(result.ByClass); err != nil {
		return fmt.Errorf("write class aggregates: %w", err)
	}
	if err := exp.ExportAggregates(result.ByRange); err != nil {
		return fmt.Errorf("write range aggregates: %w", err)
	}
	if err := exp.ExportInsights(result.Insights); err != nil {
		return fmt.Errorf("write insights: %w", err)
	}
	if err := exp.ExportStatTests(result.StatTests); err != nil {
		return fmt.Errorf("write stat tests: %w", err)
	}
	if err := exp.ExportDailySummary(result.DailySummary); err != nil {
		return fmt.Errorf("write daily summary: %w", err)
	}
	if err := exp.ExportRunLog(result.RunID, result.Duration,
		len(result.Merged), result.RowsFiltered,
		result.CoercionFailures, result.UnresolvedRows); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}

	p.logger.Info("reports written", "dir", p.cfg.Output.Dir, "run_id", result.RunID)
	return nil
}
