package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sentrade/internal/analysis"
	apierrors "sentrade/internal/errors"
	"sentrade/internal/pipeline"
)

// ResultsHandler serves the latest run's tables.
type ResultsHandler struct {
	store  *ResultStore
	logger *slog.Logger
}

// NewResultsHandler creates a results handler.
func NewResultsHandler(store *ResultStore, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "results")),
	}
}

// Routes returns the results routes.
func (h *ResultsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.WriteError(w, apierrors.ErrNotFound)
	})

	r.Get("/merged", h.GetMerged)
	r.Get("/aggregates/{dimension}", h.GetAggregates)
	r.Get("/insights", h.GetInsights)
	r.Get("/tests", h.GetStatTests)
	r.Get("/daily", h.GetDailySummary)

	return r
}

// latest fetches the stored run or writes 503 when none has completed.
func (h *ResultsHandler) latest(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	result, ok := h.store.Get()
	if !ok {
		h.logger.WarnContext(r.Context(), "request before first completed run",
			"path", r.URL.Path)
		apierrors.WriteError(w, apierrors.ErrNoRunAvailable)
		return nil, false
	}
	return result, true
}

// GetMerged handles GET /api/results/merged
func (h *ResultsHandler) GetMerged(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id": result.RunID,
		"rows":   mergedTradeViews(result.Merged),
	})
}

// GetAggregates handles GET /api/results/aggregates/{dimension} where
// dimension is sentiment_class or sentiment_range.
func (h *ResultsHandler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}

	var set *analysis.AggregateSet
	switch chi.URLParam(r, "dimension") {
	case string(analysis.GroupByClass), "class":
		set = result.ByClass
	case string(analysis.GroupByRange), "range":
		set = result.ByRange
	default:
		apierrors.WriteError(w, apierrors.NotFoundError("aggregate dimension"))
		return
	}

	render.JSON(w, r, aggregateSetViewOf(set))
}

// GetInsights handles GET /api/results/insights
func (h *ResultsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id":   result.RunID,
		"insights": insightViews(result.Insights),
	})
}

// GetStatTests handles GET /api/results/tests
func (h *ResultsHandler) GetStatTests(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, statTestsViewOf(result.StatTests))
}

// GetDailySummary handles GET /api/results/daily
func (h *ResultsHandler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	result, ok := h.latest(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id": result.RunID,
		"days":   dailySummaryViews(result.DailySummary),
	})
}
