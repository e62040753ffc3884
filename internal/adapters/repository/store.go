// Package repository keeps the aggregated table of each metric together with
// its operator ranking.
package repository

import (
	"context"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/types"
)

// Store provides read/write access to the per-metric tables.
type Store interface {
	// Put replaces the table of metric and rebuilds its ranking.
	Put(ctx context.Context, metric model.MetricKind, t *aggregate.Table) error

	// Table returns the stored table of metric.
	// Returns ErrNotFound if nothing was stored for it.
	Table(ctx context.Context, metric model.MetricKind) (*aggregate.Table, error)

	// Rank returns an operator's position in the ranking of metric.
	// Returns ErrNotFound if the operator or metric is unknown.
	Rank(ctx context.Context, metric model.MetricKind, operator string) (types.Entry, error)

	// TopN returns the first n ranking entries of metric.
	TopN(ctx context.Context, metric model.MetricKind, n int) ([]types.Entry, error)

	// Count returns the number of operators ranked for metric.
	Count(ctx context.Context, metric model.MetricKind) int
}
