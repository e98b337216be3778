package exporter

import (
	"fmt"
	"os"
	"time"

	"sentrade/internal/analysis"
	"sentrade/pkg/contracts/domain"
)

// ReportExporter writes the pipeline's output files: the merged trade
// snapshot, the aggregate tables, the structured insights, the
// hypothesis tests, and the daily summary.
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates a report exporter rooted at outputDir.
func NewReportExporter(outputDir string) *ReportExporter {
	return &ReportExporter{csvWriter: NewCSVWriter(outputDir)}
}

var mergedHeaders = []string{
	"instrument", "timestamp", "trade_date", "execution_price",
	"size_base", "size_quote", "closed_pnl", "fee", "side", "direction",
	"net_pnl", "is_win", "is_loss", "is_long", "is_short", "action_type",
	"sentiment_score", "sentiment_class", "sentiment_range",
}

// ExportMergedTrades streams the merged dataset to merged_trades.csv,
// one row per retained trade, in pipeline order.
func (e *ReportExporter) ExportMergedTrades(merged []domain.MergedTrade) error {
	stream, err := e.csvWriter.CreateStreamWriter("merged_trades.csv", mergedHeaders)
	if err != nil {
		return fmt.Errorf("create merged snapshot: %w", err)
	}

	for i, t := range merged {
		row := []string{
			t.Instrument,
			t.Timestamp.Format("02-01-2006 15:04"),
			t.TradeDate.Format("2006-01-02"),
			formatFloat(t.ExecutionPrice),
			formatFloat(t.SizeBase),
			formatFloat(t.SizeQuote),
			formatFloat(t.ClosedPnL),
			formatFloat(t.Fee),
			t.Side,
			t.DirectionLabel,
			formatFloat(t.NetPnL),
			formatBool(t.IsWin),
			formatBool(t.IsLoss),
			formatBool(t.IsLong),
			formatBool(t.IsShort),
			t.ActionType,
			formatScore(t.SentimentScore),
			string(t.SentimentClass),
			string(t.SentimentRange),
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return fmt.Errorf("write merged row %d: %w", i, err)
		}
	}

	return stream.Close()
}

// ExportAggregates writes one CSV per statistic family, suffixed with
// the grouping dimension (e.g. win_rate_by_sentiment_class.csv).
func (e *ReportExporter) ExportAggregates(set *analysis.AggregateSet) error {
	suffix := string(set.Dimension)

	winRates := make([][]string, 0, len(set.WinRates))
	for _, r := range set.WinRates {
		winRates = append(winRates, []string{
			r.Group, formatInt(r.Wins), formatInt(r.Losses), formatInt(r.Total),
			formatRate(r.WinRate), formatFloat(r.TotalNetPnL),
			formatFloat(r.MeanNetPnL), formatFloat(r.MedianNetPnL),
		})
	}
	if err := e.csvWriter.WriteSimpleCSV(
		fmt.Sprintf("win_rate_by_%s.csv", suffix),
		[]string{"group", "wins", "losses", "total", "win_rate", "total_net_pnl", "mean_net_pnl", "median_net_pnl"},
		winRates,
	); err != nil {
		return fmt.Errorf("export win rates: %w", err)
	}

	sizing := make([][]string, 0, len(set.Sizing))
	for _, r := range set.Sizing {
		sizing = append(sizing, []string{
			r.Group, formatInt(r.Trades), formatFloat(r.Mean), formatFloat(r.Median),
			formatFloat(r.Std), formatFloat(r.Min), formatFloat(r.Max),
		})
	}
	if err := e.csvWriter.WriteSimpleCSV(
		fmt.Sprintf("sizing_by_%s.csv", suffix),
		[]string{"group", "trades", "mean", "median", "std", "min", "max"},
		sizing,
	); err != nil {
		return fmt.Errorf("export sizing: %w", err)
	}

	direction := make([][]string, 0, len(set.Direction))
	for _, r := range set.Direction {
		direction = append(direction, []string{
			r.Group, formatInt(r.Longs), formatInt(r.Shorts), formatInt(r.Total),
			formatFloat(r.LongPct), formatFloat(r.ShortPct),
		})
	}
	if err := e.csvWriter.WriteSimpleCSV(
		fmt.Sprintf("direction_by_%s.csv", suffix),
		[]string{"group", "longs", "shorts", "total", "long_pct", "short_pct"},
		direction,
	); err != nil {
		return fmt.Errorf("export direction: %w", err)
	}

	frequency := make([][]string, 0, len(set.Frequency))
	for _, r := range set.Frequency {
		frequency = append(frequency, []string{
			r.Group, formatInt(r.ActiveDays), formatFloat(r.MeanDaily),
			formatFloat(r.MedianDaily), formatFloat(r.StdDaily),
			formatFloat(r.MinDaily), formatFloat(r.MaxDaily),
		})
	}
	if err := e.csvWriter.WriteSimpleCSV(
		fmt.Sprintf("frequency_by_%s.csv", suffix),
		[]string{"group", "active_days", "mean_daily", "median_daily", "std_daily", "min_daily", "max_daily"},
		frequency,
	); err != nil {
		return fmt.Errorf("export frequency: %w", err)
	}

	distribution := make([][]string, 0, len(set.Distribution))
	for _, r := range set.Distribution {
		distribution = append(distribution, []string{
			r.Group, formatInt(r.Trades), formatFloat(r.Min), formatFloat(r.P25),
			formatFloat(r.P50), formatFloat(r.P75), formatFloat(r.P90),
			formatFloat(r.P95), formatFloat(r.Max),
		})
	}
	if err := e.csvWriter.WriteSimpleCSV(
		fmt.Sprintf("distribution_by_%s.csv", suffix),
		[]string{"group", "trades", "min", "p25", "p50", "p75", "p90", "p95", "max"},
		distribution,
	); err != nil {
		return fmt.Errorf("export distribution: %w", err)
	}

	return nil
}

// ExportInsights writes the structured insight records.
func (e *ReportExporter) ExportInsights(insights []analysis.Insight) error {
	records := make([][]string, 0, len(insights))
	for _, in := range insights {
		records = append(records, []string{
			string(in.Kind), in.Group, in.Metric,
			formatRate(in.Value), formatInt(in.Support), in.Message,
		})
	}
	return e.csvWriter.WriteSimpleCSV(
		"insights.csv",
		[]string{"kind", "group", "metric", "value", "support", "message"},
		records,
	)
}

// ExportStatTests writes the hypothesis-test results, one test per row.
func (e *ReportExporter) ExportStatTests(tests analysis.StatTests) error {
	records := [][]string{
		{
			"anova_pnl_by_class",
			formatRate(tests.PnLByClass.F),
			formatRate(tests.PnLByClass.PValue),
			formatInt(tests.PnLByClass.N),
			fmt.Sprintf("df=%d/%d groups=%d", tests.PnLByClass.DFBetween, tests.PnLByClass.DFWithin, tests.PnLByClass.Groups),
		},
		{
			"chi_square_direction_vs_class",
			formatRate(tests.DirectionVsClass.Statistic),
			formatRate(tests.DirectionVsClass.PValue),
			formatInt(tests.DirectionVsClass.N),
			fmt.Sprintf("df=%d", tests.DirectionVsClass.DF),
		},
		{
			"pearson_size_vs_sentiment",
			formatRate(tests.SizeVsSentiment.R),
			formatRate(tests.SizeVsSentiment.PValue),
			formatInt(tests.SizeVsSentiment.N),
			"",
		},
	}
	return e.csvWriter.WriteSimpleCSV(
		"stat_tests.csv",
		[]string{"test", "statistic", "p_value", "n", "detail"},
		records,
	)
}

var runLogHeaders = []string{
	"completed_at", "run_id", "duration",
	"merged_rows", "filtered_rows", "coercion_failures", "unresolved_rows",
}

// ExportRunLog appends one line per completed run to run_log.csv, so
// the history survives across runs. The file is created with headers on
// first use.
func (e *ReportExporter) ExportRunLog(runID string, duration time.Duration, mergedRows, filteredRows, coercionFailures, unresolvedRows int) error {
	record := []string{
		time.Now().UTC().Format(time.RFC3339),
		runID,
		duration.String(),
		formatInt(mergedRows),
		formatInt(filteredRows),
		formatInt(coercionFailures),
		formatInt(unresolvedRows),
	}

	if _, err := os.Stat(e.csvWriter.resolvePath("run_log.csv")); os.IsNotExist(err) {
		return e.csvWriter.WriteSimpleCSV("run_log.csv", runLogHeaders, [][]string{record})
	}
	return e.csvWriter.AppendToCSV("run_log.csv", [][]string{record})
}

// ExportDailySummary writes the per-day rollup.
func (e *ReportExporter) ExportDailySummary(rows []analysis.DailySummaryRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date.Format("2006-01-02"),
			formatInt(r.Trades),
			formatInt(r.Wins),
			formatRate(r.WinRate),
			formatFloat(r.TotalNetPnL),
			formatFloat(r.CumulativePnL),
			formatScore(r.SentimentScore),
			r.SentimentClass,
		})
	}
	return e.csvWriter.WriteSimpleCSV(
		"daily_summary.csv",
		[]string{"date", "trades", "wins", "win_rate", "total_net_pnl", "cumulative_net_pnl", "sentiment_score", "sentiment_class"},
		records,
	)
}
