package api

import "net/http"

// TrendsHandler handles series, history and at-risk requests.
type TrendsHandler struct {
	deps TrendsDependencies
}

// NewTrendsHandler creates a new trends handler.
func NewTrendsHandler(deps TrendsDependencies) *TrendsHandler {
	return &TrendsHandler{deps: deps}
}

// HandleSeries handles GET /series?metric= requests.
func (h *TrendsHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_series"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, err := h.deps.Series(r.Context(), queryOr(r, "metric", defaultMetric))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// HandleHistory handles GET /history requests.
func (h *TrendsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	history, err := h.deps.History(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// HandleAtRisk handles GET /at-risk requests.
func (h *TrendsHandler) HandleAtRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_at_risk"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.AtRisk(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
