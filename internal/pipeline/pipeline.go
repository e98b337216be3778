// Package pipeline runs the batch analysis: load the two snapshots,
// derive per-trade metrics, join sentiment by date, and aggregate. A
// run either fully succeeds, producing the merged table and every
// aggregate table, or fails fast at load.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"sentrade/internal/analysis"
	"sentrade/internal/config"
	"sentrade/internal/dataset"
	"sentrade/internal/infrastructure"
	"sentrade/pkg/contracts/domain"
)

// Result is everything one run produces.
type Result struct {
	RunID    string
	Duration time.Duration

	Merged       []domain.MergedTrade
	ByClass      *analysis.AggregateSet
	ByRange      *analysis.AggregateSet
	Insights     []analysis.Insight
	StatTests    analysis.StatTests
	DailySummary []analysis.DailySummaryRow

	// Data-quality counters surfaced to logs and metrics.
	RowsTotal        int
	RowsFiltered     int
	CoercionFailures int
	UnresolvedRows   int
}

// Pipeline wires the stages together.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	loader  *dataset.Loader
	engine  *analysis.Engine
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTracer attaches a tracer; phases become child spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics attaches the run counters.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		loader: dataset.NewLoader(logger),
		engine: analysis.NewEngine(logger),
		tracer: noop.NewTracerProvider().Tracer("sentrade"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the whole batch. The context carries the run's trace ID
// so every log line of the run is correlated.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	ctx = infrastructure.WithTraceID(ctx, runID)
	started := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("instrument", p.cfg.Input.Instrument),
		))
	defer span.End()

	logger := p.logger.With("run_id", runID)
	logger.InfoContext(ctx, "pipeline run starting",
		"instrument", p.cfg.Input.Instrument,
		"trades_file", p.cfg.Input.TradesFile,
		"sentiment_file", p.cfg.Input.SentimentFile)

	result := &Result{RunID: runID}

	trades, sentiment, err := p.load(ctx, result)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	merged := p.join(ctx, trades, sentiment, result)
	result.Merged = merged

	if err := p.aggregate(ctx, merged, result); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	result.Duration = time.Since(started)
	infrastructure.RecordRunMetrics(ctx, p.metrics, p.cfg.Input.Instrument,
		int64(len(merged)), int64(result.RowsFiltered),
		int64(result.CoercionFailures), int64(result.UnresolvedRows),
		result.Duration)

	logger.InfoContext(ctx, "pipeline run complete",
		"merged_rows", len(merged),
		"unresolved_rows", result.UnresolvedRows,
		"coercion_failures", result.CoercionFailures,
		"duration", result.Duration)

	return result, nil
}

// load reads both snapshots and fills the load-side counters.
func (p *Pipeline) load(ctx context.Context, result *Result) ([]domain.Trade, map[time.Time]domain.SentimentRecord, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.load")
	defer span.End()

	tradeResult, err := p.loader.LoadTrades(p.cfg.Input.TradesFile, p.cfg.Input.Instrument)
	if err != nil {
		return nil, nil, fmt.Errorf("load trades: %w", err)
	}

	sentiment, err := p.loader.LoadSentiment(p.cfg.Input.SentimentFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load sentiment: %w", err)
	}

	result.RowsTotal = tradeResult.Total
	result.RowsFiltered = tradeResult.Filtered
	result.CoercionFailures = tradeResult.Coercion.Total()

	span.SetAttributes(
		attribute.Int("rows_total", tradeResult.Total),
		attribute.Int("rows_retained", len(tradeResult.Records)),
		attribute.Int("sentiment_days", len(sentiment)),
	)

	return dataset.DeriveMetrics(tradeResult.Records), sentiment, nil
}

// join merges sentiment onto the trades.
func (p *Pipeline) join(ctx context.Context, trades []domain.Trade, sentiment map[time.Time]domain.SentimentRecord, result *Result) []domain.MergedTrade {
	_, span := p.tracer.Start(ctx, "pipeline.join")
	defer span.End()

	joined := dataset.JoinSentiment(trades, sentiment)
	result.UnresolvedRows = joined.UnresolvedRows

	span.SetAttributes(
		attribute.Int("merged_rows", len(joined.Merged)),
		attribute.Int("unresolved_rows", joined.UnresolvedRows),
	)
	return joined.Merged
}

// aggregate computes both grouping dimensions plus the derived reports.
func (p *Pipeline) aggregate(ctx context.Context, merged []domain.MergedTrade, result *Result) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.aggregate")
	defer span.End()

	byClass, err := p.engine.Aggregate(ctx, merged, analysis.GroupByClass)
	if err != nil {
		return fmt.Errorf("aggregate by class: %w", err)
	}
	byRange, err := p.engine.Aggregate(ctx, merged, analysis.GroupByRange)
	if err != nil {
		return fmt.Errorf("aggregate by range: %w", err)
	}

	result.ByClass = byClass
	result.ByRange = byRange
	result.Insights = append(
		analysis.BuildInsights(byClass, p.cfg.Analysis),
		analysis.DirectionEdgeInsight(merged, p.cfg.Analysis)...,
	)
	result.StatTests = analysis.RunStatTests(merged)
	result.DailySummary = analysis.DailySummary(merged)
	return nil
}
