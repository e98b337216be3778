// Command analyzer runs the batch pipeline once and writes the report
// files: the merged trade snapshot, the aggregate tables, the insights,
// the hypothesis tests, and the daily summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"sentrade/internal/config"
	"sentrade/internal/infrastructure"
	"sentrade/internal/pipeline"
	"sentrade/pkg/contracts"
)

func main() {
	tradesFile := flag.String("trades", "", "trade snapshot file (.csv or .xlsx); overrides config")
	sentimentFile := flag.String("sentiment", "", "fear & greed index file; overrides config")
	instrument := flag.String("instrument", "", "target instrument symbol; overrides config")
	outDir := flag.String("out", "", "report output directory; overrides config")
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	if err := run(*tradesFile, *sentimentFile, *instrument, *outDir, *configFile); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}
}

func run(tradesFile, sentimentFile, instrument, outDir, configFile string) error {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if tradesFile != "" {
		cfg.Input.TradesFile = tradesFile
	}
	if sentimentFile != "" {
		cfg.Input.SentimentFile = sentimentFile
	}
	if instrument != "" {
		cfg.Input.Instrument = instrument
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogger()

	logger.Info("starting", "version", contracts.GetFullVersionString())

	ctx := context.Background()

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer providers.Shutdown(ctx)

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.Warn("pipeline metrics disabled", "error", err)
	}

	p := pipeline.New(cfg, logger,
		pipeline.WithTracer(providers.Tracer),
		pipeline.WithMetrics(metrics),
	)

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}
	if err := p.WriteReports(result); err != nil {
		return err
	}

	printSummary(result, cfg.Output.Dir)
	return nil
}

// printSummary writes the run's headline numbers to stdout for
// interactive use; the structured log carries the same fields.
func printSummary(result *pipeline.Result, outDir string) {
	fmt.Printf("run %s complete in %s\n", result.RunID, result.Duration)
	fmt.Printf("  merged rows:        %d\n", len(result.Merged))
	fmt.Printf("  filtered rows:      %d\n", result.RowsFiltered)
	fmt.Printf("  coercion failures:  %d\n", result.CoercionFailures)
	fmt.Printf("  unresolved rows:    %d\n", result.UnresolvedRows)
	fmt.Printf("  insights:           %d\n", len(result.Insights))
	fmt.Printf("reports written to %s\n", outDir)
}
