package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sentrade/internal/config"
	apierrors "sentrade/internal/errors"
	"sentrade/internal/infrastructure"
	custommw "sentrade/internal/middleware"
	"sentrade/pkg/contracts"
)

// Server is the read-only results API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and server from configuration. providers
// may be nil, in which case tracing middleware and /metrics are
// omitted.
func NewServer(cfg *config.Config, store *ResultStore, providers *infrastructure.OTelProviders, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Order matters: request ID first so every later stage logs it.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.StripSlashes)
	r.Use(custommw.Compress(5))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, apierrors.ErrNotFound)
	})

	if cfg.Server.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	if providers != nil {
		otelMW, err := custommw.NewOTelMiddleware(providers)
		if err != nil {
			return nil, fmt.Errorf("create otel middleware: %w", err)
		}
		r.Use(otelMW.Handler)
	}

	health := NewHealthHandler(store, contracts.Version, logger)
	results := NewResultsHandler(store, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.HealthCheck)
		r.Get("/health/ready", health.ReadinessCheck)
		r.Get("/health/live", health.LivenessCheck)
		r.Mount("/results", results.Routes())
	})

	if providers != nil && providers.PrometheusHTTP != nil {
		r.Handle("/metrics", providers.PrometheusHTTP)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      r,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("results server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("results server shutting down")
	return s.httpServer.Shutdown(ctx)
}
