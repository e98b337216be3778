package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports service health and the latest run's status.
type HealthHandler struct {
	store   *ResultStore
	logger  *slog.Logger
	started time.Time
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(store *ResultStore, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		logger:  logger.With(slog.String("handler", "health")),
		started: time.Now(),
		version: version,
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "healthy",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	}
	if result, ok := h.store.Get(); ok {
		status["last_run_id"] = result.RunID
		status["last_run_at"] = h.store.UpdatedAt().UTC().Format(time.RFC3339)
		status["merged_rows"] = len(result.Merged)
	} else {
		status["last_run_id"] = nil
	}
	render.JSON(w, r, status)
}

// ReadinessCheck handles GET /api/health/ready; the server is ready
// once a run has completed.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.store.Get(); !ok {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]string{"status": "waiting for first run"})
		return
	}
	render.JSON(w, r, map[string]string{"status": "ready"})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "alive"})
}
