// Package summary derives headline statistics from one metric's aggregated
// series.
package summary

import (
	"fmt"
	"sort"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
)

// OperatorMean is an operator's mean across every year with a value.
// Mean is nil when the operator has no non-null year.
type OperatorMean struct {
	Operator string
	Mean     *float64
	Years    int
}

// OperatorMeans returns one entry per operator of t, in the table's
// first-seen operator order.
func OperatorMeans(t *aggregate.Table) []OperatorMean {
	type acc struct {
		sum   float64
		count int
	}
	accs := make(map[string]*acc)
	order := make([]string, 0)
	for _, p := range t.Points() {
		a, ok := accs[p.Operator]
		if !ok {
			a = &acc{}
			accs[p.Operator] = a
			order = append(order, p.Operator)
		}
		if p.Value != nil {
			a.sum += *p.Value
			a.count++
		}
	}

	out := make([]OperatorMean, 0, len(order))
	for _, op := range order {
		a := accs[op]
		m := OperatorMean{Operator: op, Years: a.count}
		if a.count > 0 {
			m.Mean = model.Float(a.sum / float64(a.count))
		}
		out = append(out, m)
	}
	return out
}

// Ranked returns means ordered by descending mean, then ascending operator
// name. Operators without a mean come last, by name.
func Ranked(means []OperatorMean) []OperatorMean {
	out := make([]OperatorMean, len(means))
	copy(out, means)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Mean == nil && b.Mean == nil:
			return a.Operator < b.Operator
		case a.Mean == nil:
			return false
		case b.Mean == nil:
			return true
		case *a.Mean != *b.Mean:
			return *a.Mean > *b.Mean
		}
		return a.Operator < b.Operator
	})
	return out
}

// Summarize computes best, worst, mean and median over the per-operator
// means of t. On ties for best or worst the operator seen first wins.
// Operators without any value take no part. It returns model.ErrNoData when
// no operator has a value.
func Summarize(t *aggregate.Table) (model.SummaryStats, error) {
	if t == nil {
		return model.SummaryStats{}, fmt.Errorf("summarize: %w", model.ErrNoData)
	}

	stats := model.SummaryStats{Metric: t.Metric()}
	values := make([]float64, 0)
	for _, m := range OperatorMeans(t) {
		if m.Mean == nil {
			continue
		}
		v := *m.Mean
		if len(values) == 0 || v > stats.BestValue {
			stats.BestOperator, stats.BestValue = m.Operator, v
		}
		if len(values) == 0 || v < stats.WorstValue {
			stats.WorstOperator, stats.WorstValue = m.Operator, v
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return model.SummaryStats{Metric: t.Metric()}, fmt.Errorf("summarize %s: %w", t.Metric(), model.ErrNoData)
	}

	stats.MeanAcrossOperators = Mean(values)
	stats.MedianAcrossOperators = Median(values)
	return stats, nil
}

// Mean is the arithmetic mean of values; zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median is the middle of the sorted values, or the average of the two
// middle values for an even count. values is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
