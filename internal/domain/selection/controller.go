package selection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
)

// Tables looks up the precomputed table of a metric.
type Tables interface {
	Table(ctx context.Context, metric model.MetricKind) (*aggregate.Table, error)
}

// StaticTables serves tables from a map. Missing metrics yield a nil table,
// which renders as no data.
type StaticTables map[model.MetricKind]*aggregate.Table

// Table implements Tables.
func (s StaticTables) Table(_ context.Context, metric model.MetricKind) (*aggregate.Table, error) {
	return s[metric], nil
}

// Event is the outcome of one accepted selection.
type Event struct {
	ID string `json:"event_id"`
	View
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDGenerator replaces the uuid based event id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller holds the current metric and its view. Selections are
// serialized; when several arrive together only the newest one is
// published and the older ones fail with ErrSuperseded.
type Controller struct {
	tables Tables
	newID  func() string

	seq     atomic.Uint64
	compute sync.Mutex

	mu      sync.RWMutex
	current model.MetricKind
	view    View
}

// New builds a controller and computes the view of the initial metric.
func New(ctx context.Context, tables Tables, initial model.MetricKind, opts ...Option) (*Controller, error) {
	if tables == nil {
		return nil, fmt.Errorf("selection: %w", ErrNilTables)
	}
	c := &Controller{
		tables: tables,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := c.Select(ctx, initial); err != nil {
		return nil, fmt.Errorf("selection: initial metric: %w", err)
	}
	return c, nil
}

// Current returns the selected metric.
func (c *Controller) Current() model.MetricKind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// View returns the view of the selected metric.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Generation returns how many valid selections have been accepted.
func (c *Controller) Generation() uint64 {
	return c.seq.Load()
}

// Select handles a selection event. An invalid metric is rejected before
// anything is computed and leaves the state untouched.
func (c *Controller) Select(ctx context.Context, metric model.MetricKind) (Event, error) {
	if !metric.Valid() {
		return Event{}, fmt.Errorf("select: %w: %d", model.ErrInvalidSelection, int(metric))
	}
	gen := c.seq.Add(1)

	c.compute.Lock()
	defer c.compute.Unlock()

	if c.seq.Load() != gen {
		return Event{}, fmt.Errorf("select %s: %w", metric, ErrSuperseded)
	}
	t, err := c.tables.Table(ctx, metric)
	if err != nil {
		return Event{}, fmt.Errorf("select %s: %w", metric, err)
	}
	v, err := Recompute(metric, t)
	if err != nil {
		return Event{}, fmt.Errorf("select %s: %w", metric, err)
	}
	if c.seq.Load() != gen {
		return Event{}, fmt.Errorf("select %s: %w", metric, ErrSuperseded)
	}

	c.mu.Lock()
	c.current = metric
	c.view = v
	c.mu.Unlock()

	return Event{ID: c.newID(), View: v}, nil
}
