package api

import (
	"bytes"
	"net/http"

	"github.com/okian/railpulse/internal/adapters/render"
)

// ChartHandler renders the current view as a line chart.
type ChartHandler struct {
	deps     ViewDependencies
	renderer *render.Renderer
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ViewDependencies, renderer *render.Renderer) *ChartHandler {
	return &ChartHandler{deps: deps, renderer: renderer}
}

// Handle returns the handler for GET /chart.svg or GET /chart.png.
func (h *ChartHandler) Handle(f render.Format) http.HandlerFunc {
	op := "api.get_chart_" + string(f)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		v, err := h.deps.View(r.Context())
		if err != nil {
			writeClassified(w, Wrap(op, err))
			return
		}
		// Render into a buffer so a failure can still produce a JSON error.
		var buf bytes.Buffer
		if err := h.renderer.Render(v, f, &buf); err != nil {
			writeClassified(w, Wrap(op, err))
			return
		}
		w.Header().Set("Content-Type", f.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}
