// Package model contains the punctuality records passed between pipeline stages.
package model

// RawRecord is one row as delivered by a loader. Percentages are either text
// (CSV/XLSX cells) or numbers (already typed sources); see normalize.
type RawRecord struct {
	Operator string
	Period   string
	Pct59    any
	Pct3m    any
	Pct15m   any
}

// NormalizedRecord is a RawRecord with a parsed year and numeric-or-missing
// percentages. A nil percentage means the source value was missing or
// unparseable.
type NormalizedRecord struct {
	Operator string
	Year     int
	Pct59    *float64
	Pct3m    *float64
	Pct15m   *float64
}

// Value returns the percentage for metric m.
func (r NormalizedRecord) Value(m MetricKind) *float64 {
	switch m {
	case Within59Sec:
		return r.Pct59
	case Within3Min:
		return r.Pct3m
	case Within15Min:
		return r.Pct15m
	}
	return nil
}

// Key identifies an aggregated point within one metric.
type Key struct {
	Operator string
	Year     int
}

// AggregatedPoint is the mean of one metric for an (operator, year) group.
// Value is nil when every contributing record was missing that metric.
type AggregatedPoint struct {
	Operator string
	Year     int
	Metric   MetricKind
	Value    *float64
}

// Key returns the (operator, year) key of p.
func (p AggregatedPoint) Key() Key {
	return Key{Operator: p.Operator, Year: p.Year}
}

// SummaryStats describes one metric across operators.
type SummaryStats struct {
	Metric                MetricKind `json:"metric"`
	BestOperator          string     `json:"best_operator"`
	BestValue             float64    `json:"best_value"`
	WorstOperator         string     `json:"worst_operator"`
	WorstValue            float64    `json:"worst_value"`
	MeanAcrossOperators   float64    `json:"mean_across_operators"`
	MedianAcrossOperators float64    `json:"median_across_operators"`
}

// Float returns a pointer to v. Handy for building nullable values.
func Float(v float64) *float64 {
	return &v
}
