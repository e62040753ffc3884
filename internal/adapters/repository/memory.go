package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/summary"
	"github.com/okian/railpulse/internal/domain/types"
)

// Snapshot is the immutable ranking state of one metric.
// Ordering: mean DESC, then operator ASC; operators without a mean last.
type Snapshot struct {
	Table      *aggregate.Table
	Entries    []types.Entry
	RankByName map[string]int
}

func newSnapshot(t *aggregate.Table) *Snapshot {
	ranked := summary.Ranked(summary.OperatorMeans(t))
	s := &Snapshot{
		Table:      t,
		Entries:    make([]types.Entry, len(ranked)),
		RankByName: make(map[string]int, len(ranked)),
	}
	for i, m := range ranked {
		s.Entries[i] = types.Entry{Rank: i + 1, Operator: m.Operator, Mean: m.Mean, Years: m.Years}
		s.RankByName[m.Operator] = i + 1
	}
	return s
}

// MemoryStore is an in-memory Store. Snapshots are replaced whole on Put, so
// readers never observe a half-built ranking.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[model.MetricKind]*Snapshot
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[model.MetricKind]*Snapshot)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, metric model.MetricKind, t *aggregate.Table) error {
	if !metric.Valid() {
		return fmt.Errorf("put: %w: %d", model.ErrInvalidSelection, int(metric))
	}
	if t == nil {
		return fmt.Errorf("put %s: %w", metric, ErrNilTable)
	}
	if t.Metric() != metric {
		return fmt.Errorf("put %s: table holds %s", metric, t.Metric())
	}
	snap := newSnapshot(t)

	s.mu.Lock()
	s.snapshots[metric] = snap
	s.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot of metric.
func (s *MemoryStore) Snapshot(metric model.MetricKind) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[metric]
	return snap, ok
}

// Table implements Store.
func (s *MemoryStore) Table(_ context.Context, metric model.MetricKind) (*aggregate.Table, error) {
	snap, ok := s.Snapshot(metric)
	if !ok {
		return nil, fmt.Errorf("table %s: %w", metric, ErrNotFound)
	}
	return snap.Table, nil
}

// Rank implements Store.
func (s *MemoryStore) Rank(_ context.Context, metric model.MetricKind, operator string) (types.Entry, error) {
	snap, ok := s.Snapshot(metric)
	if !ok {
		return types.Entry{}, fmt.Errorf("rank %s: %w", metric, ErrNotFound)
	}
	r, ok := snap.RankByName[operator]
	if !ok {
		return types.Entry{}, fmt.Errorf("rank %q: %w", operator, ErrNotFound)
	}
	return snap.Entries[r-1], nil
}

// TopN implements Store.
func (s *MemoryStore) TopN(_ context.Context, metric model.MetricKind, n int) ([]types.Entry, error) {
	if n < 1 {
		return nil, fmt.Errorf("top %d: %w", n, ErrInvalidLimit)
	}
	snap, ok := s.Snapshot(metric)
	if !ok {
		return []types.Entry{}, nil
	}
	if n > len(snap.Entries) {
		n = len(snap.Entries)
	}
	out := make([]types.Entry, n)
	copy(out, snap.Entries[:n])
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, metric model.MetricKind) int {
	snap, ok := s.Snapshot(metric)
	if !ok {
		return 0
	}
	return len(snap.Entries)
}
