package report

import (
	"io"

	"github.com/okian/railpulse/internal/adapters/source"
	"github.com/okian/railpulse/internal/domain/model"
)

// Config holds configuration for one report run.
type Config struct {
	DataPath   string             // CSV or XLSX input
	Sheet      string             // XLSX sheet, first when empty
	Metrics    []model.MetricKind // metrics to report, in order
	XLSXPath   string             // optional workbook output
	Exclusions map[string]bool    // operator exclusion set
	Columns    source.Columns     // header mapping
	Limit      int                // operators listed per metric, 0 for all
	Verbose    bool               // log load statistics
	Out        io.Writer          // text output, stdout when nil
}
