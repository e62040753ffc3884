// Package worker aggregates queued metric jobs and stores the resulting
// tables.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/railpulse/internal/adapters/mq/queue"
	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/pkg/logger"
	"github.com/okian/railpulse/pkg/metrics"
)

const defaultWorkerCount = 3

// Aggregator builds the table of one metric.
type Aggregator interface {
	Aggregate(rows []model.NormalizedRecord, metric model.MetricKind) (*aggregate.Table, error)
}

// AggregatorFunc adapts a function to Aggregator.
type AggregatorFunc func(rows []model.NormalizedRecord, metric model.MetricKind) (*aggregate.Table, error)

// Aggregate implements Aggregator.
func (f AggregatorFunc) Aggregate(rows []model.NormalizedRecord, metric model.MetricKind) (*aggregate.Table, error) {
	return f(rows, metric)
}

// Store receives finished tables.
type Store interface {
	Put(ctx context.Context, metric model.MetricKind, t *aggregate.Table) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// InMemoryWorker consumes jobs until the queue is drained or ctx ends.
type InMemoryWorker struct {
	queue      Queue
	aggregator Aggregator
	store      Store
	name       string
	logger     logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, agg Aggregator, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		aggregator: agg,
		store:      store,
		name:       "worker",
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run processes jobs until the queue channel closes. The first job failure
// stops the worker and is returned.
func (w *InMemoryWorker) Run(ctx context.Context) error {
	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok := <-jobs:
			if !ok {
				return nil
			}
			if err := w.process(ctx, job); err != nil {
				return err
			}
		}
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordAggregationLatency(job.Metric.Key(), float64(time.Since(start).Milliseconds()))
	}()

	t, err := w.aggregator.Aggregate(job.Rows, job.Metric)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "aggregate_error")
		w.logger.Error(ctx, "aggregation failed",
			logger.String("job_id", job.ID),
			logger.String("metric", job.Metric.String()),
			logger.Error(err),
		)
		return fmt.Errorf("aggregate job %s: %w", job.ID, err)
	}

	if err := w.store.Put(ctx, job.Metric, t); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "storing table failed",
			logger.String("job_id", job.ID),
			logger.Error(err),
		)
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}

	metrics.UpdateAggregatedPoints(job.Metric.Key(), t.Len())
	metrics.UpdateOperators(job.Metric.Key(), len(t.Operators()))
	w.logger.Debug(ctx, "table aggregated",
		logger.String("job_id", job.ID),
		logger.String("metric", job.Metric.String()),
		logger.Int("points", t.Len()),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Pool runs a fixed set of workers under one errgroup.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger

	mu     sync.Mutex
	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewPool creates a worker pool. A non-positive count uses the default.
func NewPool(workerCount int, q Queue, agg Aggregator, store Store, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(q, agg, store,
			WithLogger(p.logger),
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. A failing worker cancels the others.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		g.Go(func() error { return w.Run(gctx) })
	}
	p.group = g
	p.cancel = cancel
}

// Wait blocks until all workers return and reports the first failure.
func (p *Pool) Wait() error {
	p.mu.Lock()
	g, cancel := p.group, p.cancel
	p.mu.Unlock()
	if g == nil {
		return nil
	}
	defer cancel()
	return g.Wait()
}

// Run starts the pool and waits for it; the queue must be closed for Run
// to return without error.
func (p *Pool) Run(ctx context.Context) error {
	p.Start(ctx)
	return p.Wait()
}

// Shutdown closes the queue, lets workers drain it and waits until ctx ends.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		p.mu.Lock()
		if p.cancel != nil {
			p.cancel()
		}
		p.mu.Unlock()
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
