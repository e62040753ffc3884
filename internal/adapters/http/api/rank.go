package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/railpulse/internal/domain/model"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	ViewDependencies
	Rank(ctx context.Context, metric model.MetricKind, operator string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{operator}?metric=M requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rank/
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/rank/")
	operator, err := url.PathUnescape(path)
	if err != nil || strings.TrimSpace(operator) == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	metric, err := metricParam(r.Context(), r, h.deps)
	if err != nil {
		writeClassified(w, Wrap(op, err))
		return
	}
	entry, err := h.deps.Rank(r.Context(), metric, operator)
	if err != nil {
		writeClassified(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
