// Package aggregate groups normalized rows by (operator, year) and averages
// one metric per group.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/okian/railpulse/internal/domain/model"
)

// accumulator is the running (sum, count) of non-null values for one key.
type accumulator struct {
	sum   float64
	count int
}

// Table is the aggregated series of one metric. It is immutable once built
// and safe for concurrent readers.
type Table struct {
	metric model.MetricKind
	index  map[model.Key]int
	points []model.AggregatedPoint
}

// Aggregate builds the table of metric over rows. Every (operator, year)
// present in rows yields a point, with a nil value when all contributing
// values are nil. Points keep the order in which their key was first seen.
func Aggregate(rows []model.NormalizedRecord, metric model.MetricKind) (*Table, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("aggregate: %w: %d", model.ErrInvalidSelection, int(metric))
	}

	index := make(map[model.Key]int)
	keys := make([]model.Key, 0)
	accs := make([]accumulator, 0)
	for _, r := range rows {
		k := model.Key{Operator: r.Operator, Year: r.Year}
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			accs = append(accs, accumulator{})
		}
		if v := r.Value(metric); v != nil {
			accs[i].sum += *v
			accs[i].count++
		}
	}

	t := &Table{
		metric: metric,
		index:  index,
		points: make([]model.AggregatedPoint, len(keys)),
	}
	for i, k := range keys {
		p := model.AggregatedPoint{Operator: k.Operator, Year: k.Year, Metric: metric}
		if accs[i].count > 0 {
			p.Value = model.Float(accs[i].sum / float64(accs[i].count))
		}
		t.points[i] = p
	}
	return t, nil
}

// All aggregates rows once per metric.
func All(rows []model.NormalizedRecord) map[model.MetricKind]*Table {
	out := make(map[model.MetricKind]*Table, len(model.Metrics()))
	for _, m := range model.Metrics() {
		t, _ := Aggregate(rows, m) // metrics from model.Metrics are always valid
		out[m] = t
	}
	return out
}

// Metric returns the metric the table was built for.
func (t *Table) Metric() model.MetricKind { return t.metric }

// Len returns the number of (operator, year) points.
func (t *Table) Len() int { return len(t.points) }

// Get looks up one point.
func (t *Table) Get(operator string, year int) (model.AggregatedPoint, bool) {
	i, ok := t.index[model.Key{Operator: operator, Year: year}]
	if !ok {
		return model.AggregatedPoint{}, false
	}
	return t.points[i], true
}

// Points returns a copy of all points in first-seen key order.
func (t *Table) Points() []model.AggregatedPoint {
	out := make([]model.AggregatedPoint, len(t.points))
	copy(out, t.points)
	return out
}

// Map returns the points keyed by (operator, year).
func (t *Table) Map() map[model.Key]model.AggregatedPoint {
	out := make(map[model.Key]model.AggregatedPoint, len(t.points))
	for _, p := range t.points {
		out[p.Key()] = p
	}
	return out
}

// Operators returns the distinct operators in first-seen order.
func (t *Table) Operators() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range t.points {
		if !seen[p.Operator] {
			seen[p.Operator] = true
			out = append(out, p.Operator)
		}
	}
	return out
}

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	out := make([]int, 0)
	for _, p := range t.points {
		if !seen[p.Year] {
			seen[p.Year] = true
			out = append(out, p.Year)
		}
	}
	sort.Ints(out)
	return out
}

// Series returns the points of one operator ordered by year.
func (t *Table) Series(operator string) []model.AggregatedPoint {
	out := make([]model.AggregatedPoint, 0)
	for _, p := range t.points {
		if p.Operator == operator {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
