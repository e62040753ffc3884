package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/railpulse/internal/app"
	"github.com/okian/railpulse/internal/adapters/render"
	"github.com/okian/railpulse/internal/adapters/repository"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/selection"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// Wrap prefixes err with the handler operation name.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind reports a sentinel kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind attaches both a sentinel kind and its cause to op.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// classify maps an upstream error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidSelection):
		return http.StatusBadRequest, "invalid_selection"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, selection.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, render.ErrNoSeries), errors.Is(err, model.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, service.ErrNotLoaded):
		return http.StatusServiceUnavailable, "not_loaded"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeClassified(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
