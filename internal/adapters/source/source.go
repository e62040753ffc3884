// Package source loads raw punctuality rows from CSV or XLSX files.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/okian/railpulse/internal/domain/model"
)

// Load reads path into raw records, choosing the reader by extension.
func Load(ctx context.Context, path string, opts ...Option) ([]model.RawRecord, error) {
	o := options{columns: DefaultColumns()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		df  dataframe.DataFrame
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		df, err = readCSVFile(path)
	case ".xlsx":
		df, err = ReadXLSX(path, o.sheet)
	default:
		return nil, fmt.Errorf("load %s: %w: %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Records(df, o.columns)
}

func readCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses CSV text into a frame whose columns are all strings, so
// that cell text reaches the normalizer untouched.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
		dataframe.WithLazyQuotes(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// ReadXLSX reads one sheet into a string frame. The first row is the header;
// short rows are padded with empty cells. An empty sheet name selects the
// first sheet.
func ReadXLSX(path, sheet string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("read xlsx: %w", ErrEmptySheet)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, ErrEmptySheet)
	}

	headers := rows[0]
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(rows)-1)
	}
	for _, row := range rows[1:] {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			columns[i] = append(columns[i], cell)
		}
	}

	list := make([]series.Series, len(headers))
	for i, name := range headers {
		list[i] = series.New(columns[i], series.String, name)
	}
	df := dataframe.New(list...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, df.Err)
	}
	return df, nil
}

// Records maps the frame's columns to raw records by header name. Headers
// are compared after trimming surrounding spaces.
func Records(df dataframe.DataFrame, c Columns) ([]model.RawRecord, error) {
	names := make(map[string]string, len(df.Names()))
	for _, n := range df.Names() {
		names[strings.TrimSpace(n)] = n
	}
	col := func(header string) ([]string, error) {
		n, ok := names[strings.TrimSpace(header)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, header)
		}
		return df.Col(n).Records(), nil
	}

	var (
		cols [5][]string
		err  error
	)
	for i, h := range []string{c.Operator, c.Period, c.Pct59, c.Pct3m, c.Pct15m} {
		if cols[i], err = col(h); err != nil {
			return nil, err
		}
	}

	out := make([]model.RawRecord, df.Nrow())
	for i := range out {
		out[i] = model.RawRecord{
			Operator: cols[0][i],
			Period:   cols[1][i],
			Pct59:    cols[2][i],
			Pct3m:    cols[3][i],
			Pct15m:   cols[4][i],
		}
	}
	return out, nil
}
