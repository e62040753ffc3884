package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
)

func buildTable(t *testing.T, metric model.MetricKind, rows []model.NormalizedRecord) *aggregate.Table {
	t.Helper()
	tbl, err := aggregate.Aggregate(rows, metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tbl
}

func sampleRows() []model.NormalizedRecord {
	return []model.NormalizedRecord{
		{Operator: "Northern", Year: 2019, Pct3m: model.Float(60)},
		{Operator: "Avanti", Year: 2019, Pct3m: model.Float(80)},
		{Operator: "Avanti", Year: 2020, Pct3m: model.Float(70)},
		{Operator: "Chiltern", Year: 2019, Pct3m: model.Float(75)},
		{Operator: "Ghost", Year: 2019},
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx, model.Within3Min); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Table(ctx, model.Within3Min); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.Put(ctx, model.Within3Min, buildTable(t, model.Within3Min, sampleRows())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx, model.Within3Min); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}

	entries, err := store.TopN(ctx, model.Within3Min, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Avanti", "Chiltern", "Northern", "Ghost"}
	for i, e := range entries {
		if e.Operator != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], e.Operator)
		}
		if e.Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, e.Rank)
		}
	}
	if entries[3].Mean != nil {
		t.Errorf("expected nil mean for operator without data, got %v", *entries[3].Mean)
	}

	entry, err := store.Rank(ctx, model.Within3Min, "Avanti")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || *entry.Mean != 75 || entry.Years != 2 {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tbl := buildTable(t, model.Within3Min, sampleRows())

	if err := store.Put(ctx, model.Within3Min, nil); !errors.Is(err, ErrNilTable) {
		t.Errorf("expected ErrNilTable, got %v", err)
	}
	if err := store.Put(ctx, model.MetricKind(0), tbl); !errors.Is(err, model.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
	if err := store.Put(ctx, model.Within15Min, tbl); err == nil {
		t.Error("expected mismatched metric to fail")
	}
	if err := store.Put(ctx, model.Within3Min, tbl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Rank(ctx, model.Within3Min, "Nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Rank(ctx, model.Within59Sec, "Avanti"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown metric, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := store.TopN(ctx, model.Within3Min, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("expected ErrInvalidLimit for %d, got %v", n, err)
		}
	}
	if entries, err := store.TopN(ctx, model.Within59Sec, 5); err != nil || len(entries) != 0 {
		t.Errorf("expected empty result for unknown metric, got %v, %v", entries, err)
	}
}

func TestMemoryStore_TopNLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Put(ctx, model.Within3Min, buildTable(t, model.Within3Min, sampleRows())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := store.TopN(ctx, model.Within3Min, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	entries[0].Operator = "mutated"
	again, _ := store.TopN(ctx, model.Within3Min, 1)
	if again[0].Operator != "Avanti" {
		t.Error("TopN must return a copy")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			rows := []model.NormalizedRecord{
				{Operator: fmt.Sprintf("op%d", i), Year: 2019, Pct15m: model.Float(float64(i))},
			}
			tbl, _ := aggregate.Aggregate(rows, model.Within15Min)
			if err := store.Put(ctx, model.Within15Min, tbl); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.TopN(ctx, model.Within15Min, 3)
			_ = store.Count(ctx, model.Within15Min)
		}()
	}
	wg.Wait()

	if count := store.Count(ctx, model.Within15Min); count != 1 {
		t.Errorf("expected the last table to hold one operator, got %d", count)
	}
}
