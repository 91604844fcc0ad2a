package api

import (
	"net/http"

	"github.com/okian/brandhealth/internal/domain/model"
)

// Query defaults match the dashboard's initial selection.
const (
	defaultMetric = string(model.Awareness)
	defaultSort   = string(model.CurrentValue)
	defaultView   = string(model.ViewCurrent)
)

// MarketsHandler handles ranking, quadrant and heatmap requests.
type MarketsHandler struct {
	deps MarketsDependencies
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(deps MarketsDependencies) *MarketsHandler {
	return &MarketsHandler{deps: deps}
}

// HandleRank handles GET /markets/rank?metric=&sort= requests.
func (h *MarketsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ranking, err := h.deps.Rank(r.Context(), queryOr(r, "metric", defaultMetric), queryOr(r, "sort", defaultSort))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// HandleQuadrants handles GET /markets/quadrants requests.
func (h *MarketsHandler) HandleQuadrants(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_quadrants"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.Quadrants(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleHeatmap handles GET /markets/heatmap?view= requests.
func (h *MarketsHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_heatmap"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	hm, err := h.deps.Heatmap(r.Context(), queryOr(r, "view", defaultView))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, hm)
}
