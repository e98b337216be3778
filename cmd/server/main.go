// Command server runs the pipeline once at startup and serves the
// results over the read-only JSON API, with Prometheus metrics on
// /metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sentrade/internal/config"
	"sentrade/internal/infrastructure"
	"sentrade/internal/pipeline"
	transport "sentrade/internal/transport/http"
	"sentrade/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "config file path")
	flag.Parse()

	if err := run(*configFile); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
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

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogger()

	logger.Info("starting", "version", contracts.GetFullVersionString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer providers.Shutdown(context.Background())

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

	store := transport.NewResultStore()
	store.Set(result)

	srv, err := transport.NewServer(cfg, store, providers, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
