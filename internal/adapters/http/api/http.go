// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/brandhealth/internal/adapters/repository"
	service "github.com/okian/brandhealth/internal/app"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	OverviewDependencies
	MarketsDependencies
	TrendsDependencies
	ExportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	overviewHandler *OverviewHandler
	marketsHandler  *MarketsHandler
	trendsHandler   *TrendsHandler
	exportHandler   *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		overviewHandler: NewOverviewHandler(deps),
		marketsHandler:  NewMarketsHandler(deps),
		trendsHandler:   NewTrendsHandler(deps),
		exportHandler:   NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/overview", MetricsMiddleware(s.overviewHandler.HandleOverview, "overview"))
	mux.HandleFunc("/markets/rank", MetricsMiddleware(s.marketsHandler.HandleRank, "markets_rank"))
	mux.HandleFunc("/markets/quadrants", MetricsMiddleware(s.marketsHandler.HandleQuadrants, "markets_quadrants"))
	mux.HandleFunc("/markets/heatmap", MetricsMiddleware(s.marketsHandler.HandleHeatmap, "markets_heatmap"))
	mux.HandleFunc("/series", MetricsMiddleware(s.trendsHandler.HandleSeries, "series"))
	mux.HandleFunc("/history", MetricsMiddleware(s.trendsHandler.HandleHistory, "history"))
	mux.HandleFunc("/at-risk", MetricsMiddleware(s.trendsHandler.HandleAtRisk, "at_risk"))
	mux.HandleFunc("/export.xlsx", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

// OverviewDependencies serves the KPI cards.
type OverviewDependencies interface {
	Overview(ctx context.Context) (service.Overview, error)
}

// MarketsDependencies serves the per-market views.
type MarketsDependencies interface {
	Rank(ctx context.Context, metricKey, sortKey string) (service.Ranking, error)
	Quadrants(ctx context.Context) (service.QuadrantView, error)
	Heatmap(ctx context.Context, viewKey string) (engine.Heatmap, error)
}

// TrendsDependencies serves the time-based views.
type TrendsDependencies interface {
	Series(ctx context.Context, metricKey string) ([]engine.SeriesPoint, error)
	History(ctx context.Context) ([]model.QuarterlySnapshot, error)
	AtRisk(ctx context.Context) ([]model.AtRiskEntry, error)
}

// ExportDependencies writes the workbook.
type ExportDependencies interface {
	Export(ctx context.Context, w io.Writer) error
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidMetricKey):
		writeError(w, http.StatusBadRequest, "invalid_key", wrap(op, err))
	case errors.Is(err, repository.ErrNotLoaded), errors.Is(err, repository.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err))
	}
}

// queryOr returns the query parameter key, or def when it is absent.
func queryOr(r *http.Request, key, def string) string {
	if v, ok := r.URL.Query()[key]; ok && len(v) > 0 {
		return v[0]
	}
	return def
}
