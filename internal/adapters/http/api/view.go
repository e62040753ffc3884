package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/selection"
)

// ViewDependencies defines the interface for the selection state.
type ViewDependencies interface {
	View(ctx context.Context) (selection.View, error)
	Select(ctx context.Context, metric model.MetricKind) (selection.Event, error)
}

// ViewHandler serves the view model and accepts selection events.
type ViewHandler struct {
	deps ViewDependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps ViewDependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleGetView handles GET /view requests.
func (h *ViewHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v, err := h.deps.View(r.Context())
	if err != nil {
		writeClassified(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandlePostSelection handles POST /selection requests. The body names the
// metric by wire key or enum name, e.g. {"metric":"3"}.
func (h *ViewHandler) HandlePostSelection(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_selection"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	metric, err := model.ParseMetric(req.Metric)
	if err != nil {
		writeClassified(w, Wrap(op, err))
		return
	}
	evt, err := h.deps.Select(r.Context(), metric)
	if err != nil {
		writeClassified(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, evt)
}

// HandleMetricKinds handles GET /metrics-kinds requests.
func (h *ViewHandler) HandleMetricKinds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var current model.MetricKind
	if v, err := h.deps.View(r.Context()); err == nil {
		current = v.Metric
	}
	all := model.Metrics()
	out := make([]metricKind, 0, len(all))
	for _, m := range all {
		out = append(out, metricKind{Value: m.Key(), Name: m.String(), Label: m.Label(), Selected: m == current})
	}
	writeJSON(w, http.StatusOK, out)
}
