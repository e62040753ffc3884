// Package service wires the punctuality pipeline together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/railpulse/internal/adapters/mq/queue"
	"github.com/okian/railpulse/internal/adapters/mq/worker"
	"github.com/okian/railpulse/internal/adapters/repository"
	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/filter"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/normalize"
	"github.com/okian/railpulse/internal/domain/selection"
	"github.com/okian/railpulse/internal/domain/types"
	"github.com/okian/railpulse/pkg/logger"
	"github.com/okian/railpulse/pkg/metrics"
)

// LoadStats describes the outcome of one Load.
type LoadStats struct {
	RawRows              int            `json:"raw_rows"`
	DroppedNoYear        int            `json:"dropped_no_year"`
	DroppedExcluded      int            `json:"dropped_excluded"`
	DroppedEmptyOperator int            `json:"dropped_empty_operator"`
	KeptRows             int            `json:"kept_rows"`
	Points               map[string]int `json:"points"`
	LoadedAt             time.Time      `json:"loaded_at"`
	Took                 time.Duration  `json:"took_ns"`
}

// MetricOption is one entry of the metric dropdown.
type MetricOption struct {
	Value string `json:"value"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Service implements the API dependencies for the punctuality dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	filter     *filter.OperatorFilter
	controller *selection.Controller

	// Configuration
	exclusions    map[string]bool
	defaultMetric model.MetricKind
	workerCount   int
	queueSize     int

	// State
	loaded bool
	stats  LoadStats

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExclusions replaces the operator exclusion set.
func WithExclusions(exclusions map[string]bool) Option {
	return func(s *Service) {
		if exclusions != nil {
			s.exclusions = exclusions
		}
	}
}

// WithDefaultMetric sets the metric selected after a load.
func WithDefaultMetric(m model.MetricKind) Option {
	return func(s *Service) {
		if m.Valid() {
			s.defaultMetric = m
		}
	}
}

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the aggregation job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStore replaces the in-memory table store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		exclusions:    filter.DefaultExclusions(),
		defaultMetric: model.Within3Min,
		workerCount:   3,
		queueSize:     16,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.filter = filter.New(s.exclusions)
	return s
}

// Load runs the whole pipeline over raw rows: normalize, filter, aggregate
// every metric on the worker pool, then rebuild the selection controller.
// A second Load replaces the previous data.
func (s *Service) Load(ctx context.Context, raw []model.RawRecord) (LoadStats, error) {
	start := time.Now()
	metrics.RecordRowsLoaded(len(raw))

	norm := normalize.Normalize(raw)
	if norm.DroppedNoYear > 0 {
		metrics.RecordRowsDropped(metrics.DropNoYear, norm.DroppedNoYear)
	}
	kept := s.filter.Filter(norm.Records)
	if kept.DroppedExcluded > 0 {
		metrics.RecordRowsDropped(metrics.DropExcluded, kept.DroppedExcluded)
	}
	if kept.DroppedEmptyOperator > 0 {
		metrics.RecordRowsDropped(metrics.DropEmptyOperator, kept.DroppedEmptyOperator)
	}
	metrics.UpdateRowsKept(len(kept.Records))

	s.logger.Info(ctx, "rows normalized",
		logger.Int("rows_raw", len(raw)),
		logger.Int("rows_dropped_no_year", norm.DroppedNoYear),
		logger.Int("rows_dropped_excluded", kept.DroppedExcluded),
		logger.Int("rows_dropped_empty_operator", kept.DroppedEmptyOperator),
		logger.Int("rows_kept", len(kept.Records)),
	)

	if err := s.aggregate(ctx, kept.Records); err != nil {
		metrics.RecordErrorByComponent("service", "aggregate_error")
		return LoadStats{}, fmt.Errorf("load: %w", err)
	}

	ctrl, err := selection.New(ctx, s.store, s.defaultMetric)
	if err != nil {
		metrics.RecordErrorByComponent("service", "selection_error")
		return LoadStats{}, fmt.Errorf("load: %w", err)
	}

	stats := LoadStats{
		RawRows:              len(raw),
		DroppedNoYear:        norm.DroppedNoYear,
		DroppedExcluded:      kept.DroppedExcluded,
		DroppedEmptyOperator: kept.DroppedEmptyOperator,
		KeptRows:             len(kept.Records),
		Points:               make(map[string]int, len(model.Metrics())),
		LoadedAt:             time.Now(),
		Took:                 time.Since(start),
	}
	for _, m := range model.Metrics() {
		if t, err := s.store.Table(ctx, m); err == nil {
			stats.Points[m.Key()] = t.Len()
		}
	}

	s.mu.Lock()
	s.controller = ctrl
	s.stats = stats
	s.loaded = true
	s.mu.Unlock()

	metrics.UpdateCurrentMetric(s.defaultMetric.Key(), metricKeys())
	s.logger.Info(ctx, "data loaded",
		logger.String("metric", s.defaultMetric.String()),
		logger.Duration("took", stats.Took),
	)
	return stats, nil
}

// aggregate fans one job per metric out to a fresh worker pool and waits
// until every table is stored. Jobs are queued before the workers start, so
// the queue holds at least one slot per metric.
func (s *Service) aggregate(ctx context.Context, rows []model.NormalizedRecord) error {
	all := model.Metrics()
	q := queue.NewInMemoryQueue(queue.WithCapacity(max(s.queueSize, len(all))))
	for _, m := range all {
		job := queue.Job{ID: uuid.NewString(), Metric: m, Rows: rows}
		if err := q.Enqueue(ctx, job); err != nil {
			_ = q.Close()
			return err
		}
	}
	if err := q.Close(); err != nil {
		return err
	}

	pool := worker.NewPool(s.workerCount, q, worker.AggregatorFunc(aggregate.Aggregate), s.store,
		worker.WithPoolLogger(s.logger.Named("aggregate")),
	)
	return pool.Run(ctx)
}

func (s *Service) ctrl() (*selection.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return s.controller, nil
}

// View returns the view of the selected metric.
func (s *Service) View(_ context.Context) (selection.View, error) {
	c, err := s.ctrl()
	if err != nil {
		return selection.View{}, err
	}
	return c.View(), nil
}

// Current returns the selected metric.
func (s *Service) Current(_ context.Context) (model.MetricKind, error) {
	c, err := s.ctrl()
	if err != nil {
		return 0, err
	}
	return c.Current(), nil
}

// Select applies a selection event and returns the published view.
func (s *Service) Select(ctx context.Context, metric model.MetricKind) (selection.Event, error) {
	c, err := s.ctrl()
	if err != nil {
		return selection.Event{}, err
	}

	start := time.Now()
	evt, err := c.Select(ctx, metric)
	metrics.RecordRecomputeLatency(float64(time.Since(start).Microseconds()) / 1000)

	label := metric.Key()
	if !metric.Valid() {
		label = "unknown"
	}
	switch {
	case errors.Is(err, model.ErrInvalidSelection):
		metrics.RecordSelection(label, metrics.OutcomeInvalid)
		s.logger.Warn(ctx, "invalid selection", logger.Int("metric", int(metric)))
		return selection.Event{}, err
	case errors.Is(err, selection.ErrSuperseded):
		metrics.RecordSelection(label, metrics.OutcomeSuperseded)
		s.logger.Debug(ctx, "selection superseded", logger.String("metric", metric.String()))
		return selection.Event{}, err
	case err != nil:
		metrics.RecordErrorByComponent("service", "selection_error")
		s.logger.Error(ctx, "selection failed", logger.String("metric", metric.String()), logger.Error(err))
		return selection.Event{}, err
	}

	if evt.NoData {
		metrics.RecordSelection(label, metrics.OutcomeNoData)
	} else {
		metrics.RecordSelection(label, metrics.OutcomeApplied)
	}
	metrics.UpdateCurrentMetric(label, metricKeys())
	s.logger.Debug(ctx, "selection applied",
		logger.String("event_id", evt.ID),
		logger.String("metric", metric.String()),
		logger.Bool("no_data", evt.NoData),
	)
	return evt, nil
}

// TopN returns the top n operators of metric.
func (s *Service) TopN(ctx context.Context, metric model.MetricKind, n int) ([]types.Entry, error) {
	if _, err := s.ctrl(); err != nil {
		return nil, err
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("top: %w: %d", model.ErrInvalidSelection, int(metric))
	}
	return s.store.TopN(ctx, metric, n)
}

// Rank returns an operator's ranking entry for metric.
func (s *Service) Rank(ctx context.Context, metric model.MetricKind, operator string) (types.Entry, error) {
	if _, err := s.ctrl(); err != nil {
		return types.Entry{}, err
	}
	if !metric.Valid() {
		return types.Entry{}, fmt.Errorf("rank: %w: %d", model.ErrInvalidSelection, int(metric))
	}
	return s.store.Rank(ctx, metric, operator)
}

// MetricOptions lists the selectable metrics in dropdown order.
func (s *Service) MetricOptions() []MetricOption {
	all := model.Metrics()
	out := make([]MetricOption, 0, len(all))
	for _, m := range all {
		out = append(out, MetricOption{Value: m.Key(), Name: m.String(), Label: m.Label()})
	}
	return out
}

// LoadStats returns the statistics of the last Load.
func (s *Service) LoadStats() (LoadStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.loaded
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"loaded":      s.loaded,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"exclusions":  len(s.filter.Exclusions()),
	}
	if !s.loaded {
		return stats
	}

	operators := make(map[string]int, len(model.Metrics()))
	for _, m := range model.Metrics() {
		operators[m.Key()] = s.store.Count(ctx, m)
	}
	stats["currentMetric"] = s.controller.Current().Key()
	stats["generation"] = s.controller.Generation()
	stats["operators"] = operators
	stats["load"] = s.stats
	return stats
}

func metricKeys() []string {
	all := model.Metrics()
	out := make([]string, len(all))
	for i, m := range all {
		out[i] = m.Key()
	}
	return out
}
