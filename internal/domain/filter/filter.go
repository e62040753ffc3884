// Package filter removes rollup and pseudo-operator rows before aggregation.
package filter

import (
	"strings"

	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/domain/normalize"
)

// DefaultExclusions lists the national and regional rollups found in the
// ORR punctuality tables plus footnoted duplicates of operator names.
func DefaultExclusions() map[string]bool {
	return map[string]bool{
		"Great Britain":           true,
		"England and Wales":       true,
		"Scotland":                true,
		"Hull Trains [note 2]":    true,
		"Hull Trains":             true,
		"Elizabeth line [note 4]": true,
		"Elizabeth line":          true,
		"Lumo":                    true,
		"Grand Central":           true,
	}
}

// Result carries the kept rows and per-reason drop counts.
type Result struct {
	Records              []model.NormalizedRecord
	DroppedExcluded      int
	DroppedEmptyOperator int
}

// OperatorFilter drops rows whose operator is in the exclusion set or empty.
type OperatorFilter struct {
	excluded map[string]bool
}

// New builds a filter from a {name → excluded} set. Entries mapped to false
// are ignored, which lets a config file re-include a default exclusion.
func New(exclusions map[string]bool) *OperatorFilter {
	f := &OperatorFilter{excluded: make(map[string]bool, len(exclusions))}
	for name, excluded := range exclusions {
		if !excluded {
			continue
		}
		if n := normalize.Operator(name); n != "" {
			f.excluded[n] = true
		}
	}
	return f
}

// Excluded reports whether operator is filtered out.
func (f *OperatorFilter) Excluded(operator string) bool {
	return f.excluded[normalize.Operator(operator)]
}

// Exclusions returns the active exclusion names.
func (f *OperatorFilter) Exclusions() []string {
	out := make([]string, 0, len(f.excluded))
	for n := range f.excluded {
		out = append(out, n)
	}
	return out
}

// Filter returns the rows that survive, in input order.
func (f *OperatorFilter) Filter(rows []model.NormalizedRecord) Result {
	res := Result{Records: make([]model.NormalizedRecord, 0, len(rows))}
	for _, r := range rows {
		switch {
		case strings.TrimSpace(r.Operator) == "":
			res.DroppedEmptyOperator++
		case f.Excluded(r.Operator):
			res.DroppedExcluded++
		default:
			res.Records = append(res.Records, r)
		}
	}
	return res
}
