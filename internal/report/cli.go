package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/railpulse/internal/domain/model"
)

// ParseMetrics reads the -metric flag: "all" or a comma separated list of
// wire keys or enum names.
func ParseMetrics(s string) ([]model.MetricKind, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return model.Metrics(), nil
	}
	seen := make(map[model.MetricKind]bool)
	out := make([]model.MetricKind, 0, 3)
	for _, part := range strings.Split(s, ",") {
		m, err := model.ParseMetric(part)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// MergeExclusions adds the comma separated names of extra to base and
// returns the result. base is not modified.
func MergeExclusions(base map[string]bool, extra string) map[string]bool {
	out := make(map[string]bool, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, name := range strings.Split(extra, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = true
		}
	}
	return out
}

// ShowHelp prints usage information for the report tool.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `railpulse report
================

Prints the punctuality summary and operator ranking of a data file and can
export them as an XLSX workbook.

Usage:
  go run ./cmd/report -data punctuality.csv [options]

Options:
  -data string
        CSV or XLSX input (default $RAILPULSE_DATA_PATH)
  -sheet string
        XLSX sheet (default: first sheet)
  -metric string
        59, 3, 15, an enum name, a comma separated list or "all" (default "all")
  -xlsx string
        Write the report to this workbook
  -exclude string
        Comma separated operators to exclude on top of the configured set
  -limit int
        Operators listed per metric, 0 for all (default 0)
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/report -data punctuality.xlsx -sheet "Table 3124"
  go run ./cmd/report -data punctuality.csv -metric 15 -xlsx report.xlsx
`)
}
