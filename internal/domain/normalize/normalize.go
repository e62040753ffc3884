// Package normalize turns raw punctuality rows into typed records.
//
// Normalization is total: malformed percentages become nil and rows without
// a year are dropped and counted, never returned as errors.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/railpulse/internal/domain/model"
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Result carries the normalized rows and drop diagnostics.
type Result struct {
	Records []model.NormalizedRecord
	// DroppedNoYear counts rows whose period had no 4-digit group.
	DroppedNoYear int
}

// Normalize converts rows in order. Rows without a year are dropped; the
// relative order of the remaining rows is preserved.
func Normalize(rows []model.RawRecord) Result {
	res := Result{Records: make([]model.NormalizedRecord, 0, len(rows))}
	for _, r := range rows {
		year, ok := ParseYear(r.Period)
		if !ok {
			res.DroppedNoYear++
			continue
		}
		res.Records = append(res.Records, model.NormalizedRecord{
			Operator: Operator(r.Operator),
			Year:     year,
			Pct59:    ParsePercent(r.Pct59),
			Pct3m:    ParsePercent(r.Pct3m),
			Pct15m:   ParsePercent(r.Pct15m),
		})
	}
	return res
}

// ParseYear returns the first run of four digits in period, e.g. 2019 for
// "2019/20" or "Apr 2019 to Mar 2020".
func ParseYear(period string) (int, bool) {
	m := yearPattern.FindString(period)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ParsePercent coerces v to a finite number or nil. Strings are trimmed and
// parsed as decimals; footnote markers, blanks, NaN and infinities are nil.
func ParsePercent(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return nil
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = p
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Operator canonicalizes an operator name: NFC form, surrounding space
// trimmed. Interior text is kept as is so grouping stays an exact match.
func Operator(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}
