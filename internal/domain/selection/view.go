// Package selection turns a metric selection into the view model shown to
// users: the ranked per-operator series plus the summary lines.
package selection

import (
	"errors"
	"fmt"

	"github.com/okian/railpulse/internal/domain/aggregate"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/summary"
)

// Title is the page heading.
const Title = "How many trains are on time in the UK?"

// Summary line labels.
const (
	LabelBest   = "Best Performer"
	LabelWorst  = "Worst Performer"
	LabelMean   = "Average Performance"
	LabelMedian = "Median Performance"
)

// Point is one year of an operator series. Value is null when the year had
// no usable data.
type Point struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// OperatorSeries is the time series of one operator.
type OperatorSeries struct {
	Operator string   `json:"operator"`
	Rank     int      `json:"rank"`
	Mean     *float64 `json:"mean"`
	Points   []Point  `json:"points"`
}

// SummaryText holds the four formatted summary lines.
type SummaryText struct {
	Best   string `json:"best"`
	Worst  string `json:"worst"`
	Mean   string `json:"mean"`
	Median string `json:"median"`
}

// View is the rendered state for one metric.
type View struct {
	Title       string              `json:"title"`
	Metric      model.MetricKind    `json:"metric"`
	MetricLabel string              `json:"metric_label"`
	Years       []int               `json:"years"`
	Series      []OperatorSeries    `json:"series"`
	Summary     *model.SummaryStats `json:"summary,omitempty"`
	SummaryText SummaryText         `json:"summary_text"`
	NoData      bool                `json:"no_data"`
}

// Recompute builds the view of metric from its aggregated table. A table
// with no usable value yields a view with NoData set rather than an error.
func Recompute(metric model.MetricKind, t *aggregate.Table) (View, error) {
	if !metric.Valid() {
		return View{}, fmt.Errorf("recompute: %w: %d", model.ErrInvalidSelection, int(metric))
	}
	if t != nil && t.Metric() != metric {
		return View{}, fmt.Errorf("recompute: table holds %s, not %s", t.Metric(), metric)
	}

	v := View{
		Title:       Title,
		Metric:      metric,
		MetricLabel: metric.Label(),
		Years:       []int{},
		Series:      []OperatorSeries{},
	}
	if t == nil {
		v.NoData = true
		v.SummaryText = noDataText()
		return v, nil
	}

	v.Years = t.Years()
	for i, m := range summary.Ranked(summary.OperatorMeans(t)) {
		s := OperatorSeries{Operator: m.Operator, Rank: i + 1, Mean: m.Mean, Points: []Point{}}
		for _, p := range t.Series(m.Operator) {
			s.Points = append(s.Points, Point{Year: p.Year, Value: p.Value})
		}
		v.Series = append(v.Series, s)
	}

	stats, err := summary.Summarize(t)
	switch {
	case errors.Is(err, model.ErrNoData):
		v.NoData = true
		v.SummaryText = noDataText()
		return v, nil
	case err != nil:
		return View{}, err
	}
	v.Summary = &stats
	v.SummaryText = FormatSummary(stats)
	return v, nil
}

// FormatSummary renders stats as the four summary lines, one decimal each.
func FormatSummary(stats model.SummaryStats) SummaryText {
	return SummaryText{
		Best:   fmt.Sprintf("%s: %s at %.1f%%", LabelBest, stats.BestOperator, stats.BestValue),
		Worst:  fmt.Sprintf("%s: %s at %.1f%%", LabelWorst, stats.WorstOperator, stats.WorstValue),
		Mean:   fmt.Sprintf("%s: %.1f%%", LabelMean, stats.MeanAcrossOperators),
		Median: fmt.Sprintf("%s: %.1f%%", LabelMedian, stats.MedianAcrossOperators),
	}
}

func noDataText() SummaryText {
	return SummaryText{
		Best:   LabelBest + ": no data",
		Worst:  LabelWorst + ": no data",
		Mean:   LabelMean + ": no data",
		Median: LabelMedian + ": no data",
	}
}
