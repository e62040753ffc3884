// Package report renders the punctuality views of a data file as text and
// as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/okian/railpulse/internal/domain/selection"
	"github.com/okian/railpulse/internal/domain/types"
)

// Section is the report of one metric.
type Section struct {
	View    selection.View
	Entries []types.Entry
}

// WriteText prints the title followed by every section.
func WriteText(w io.Writer, sections []Section) error {
	if _, err := fmt.Fprintf(w, "%s\n", selection.Title); err != nil {
		return err
	}
	for _, s := range sections {
		if err := writeSection(w, s); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, s Section) error {
	v := s.View
	fmt.Fprintf(w, "\n%s\n%s\n", v.MetricLabel, strings.Repeat("-", len(v.MetricLabel)))
	fmt.Fprintf(w, "%s\n%s\n%s\n%s\n", v.SummaryText.Best, v.SummaryText.Worst, v.SummaryText.Mean, v.SummaryText.Median)
	if len(s.Entries) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tOperator\tMean\tYears")
	for _, e := range s.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", e.Rank, e.Operator, formatMean(e.Mean), e.Years)
	}
	return tw.Flush()
}

func formatMean(m *float64) string {
	if m == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *m)
}

// SheetName is the workbook sheet of a section.
func SheetName(v selection.View) string {
	return v.Metric.String()
}

// WriteXLSX saves one sheet per section: rank, operator, mean and one column
// per year, ordered like the view series. A leading Summary sheet holds the
// summary lines.
func WriteXLSX(path string, sections []Section) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]any{selection.Title}); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	pct, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for i, s := range sections {
		row := []any{s.View.MetricLabel, s.View.SummaryText.Best, s.View.SummaryText.Worst, s.View.SummaryText.Mean, s.View.SummaryText.Median}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := writeSheet(f, s, pct); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "E", 36)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Section, pct int) error {
	v := s.View
	name := SheetName(v)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("xlsx: sheet %s: %w", name, err)
	}

	header := []any{"Rank", "Operator", "Mean"}
	for _, y := range v.Years {
		header = append(header, y)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	col := make(map[int]int, len(v.Years))
	for i, y := range v.Years {
		col[y] = i + 3
	}
	for i, series := range v.Series {
		row := make([]any, len(header))
		row[0] = series.Rank
		row[1] = series.Operator
		row[2] = cellValue(series.Mean)
		for j := 3; j < len(row); j++ {
			row[j] = ""
		}
		for _, p := range series.Points {
			if c, ok := col[p.Year]; ok {
				row[c] = cellValue(p.Value)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	if len(v.Series) > 0 {
		first, _ := excelize.CoordinatesToCellName(3, 2)
		last, _ := excelize.CoordinatesToCellName(len(header), len(v.Series)+1)
		if err := f.SetCellStyle(name, first, last, pct); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}
	_ = f.SetColWidth(name, "B", "B", 36)
	return nil
}

func cellValue(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
