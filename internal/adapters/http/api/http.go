// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/railpulse/internal/adapters/render"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/types"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ViewDependencies
	LeaderboardDependencies
	RankDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the leaderboard limit parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithRenderer sets the chart renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLimit int
	renderer *render.Renderer

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	viewHandler        *ViewHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	chartHandler       *ChartHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = render.New()
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.viewHandler = NewViewHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	s.chartHandler = NewChartHandler(deps, s.renderer)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/metrics-kinds", MetricsMiddleware(s.viewHandler.HandleMetricKinds, "metrics_kinds"))
	mux.HandleFunc("/view", MetricsMiddleware(s.viewHandler.HandleGetView, "view"))
	mux.HandleFunc("/selection", MetricsMiddleware(s.viewHandler.HandlePostSelection, "selection"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/chart.svg", MetricsMiddleware(s.chartHandler.Handle(render.SVG), "chart_svg"))
	mux.HandleFunc("/chart.png", MetricsMiddleware(s.chartHandler.Handle(render.PNG), "chart_png"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/{$}", s.dashboardHandler.HandleDashboard)
}

// selectionRequest mirrors the OpenAPI schema for POST /selection.
type selectionRequest struct {
	Metric string `json:"metric"`
}

type metricKind struct {
	Value    string `json:"value"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
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

// metricParam reads the optional ?metric= parameter, falling back to the
// currently selected metric.
func metricParam(ctx context.Context, r *http.Request, deps ViewDependencies) (model.MetricKind, error) {
	if v := r.URL.Query().Get("metric"); v != "" {
		return model.ParseMetric(v)
	}
	view, err := deps.View(ctx)
	if err != nil {
		return 0, err
	}
	return view.Metric, nil
}
