package report

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/okian/railpulse/internal/adapters/source"
	service "github.com/okian/railpulse/internal/app"
	"github.com/okian/railpulse/pkg/logger"
)

// ErrNoData is returned when Config.DataPath is empty.
var ErrNoData = errors.New("no data file given")

// Run loads the data file, computes a section per requested metric, prints
// them and optionally writes the workbook.
func Run(ctx context.Context, cfg *Config) ([]Section, error) {
	if cfg.DataPath == "" {
		return nil, ErrNoData
	}
	log := logger.Get().Named("report")
	log.Debug(ctx, "starting railpulse report",
		logger.String("data", cfg.DataPath),
		logger.String("sheet", cfg.Sheet),
		logger.Int("metrics", len(cfg.Metrics)),
		logger.String("xlsx", cfg.XLSXPath),
	)

	// Step 1: read the file
	raw, err := source.Load(ctx, cfg.DataPath, source.WithColumns(cfg.Columns), source.WithSheet(cfg.Sheet))
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	// Step 2: run the pipeline
	svc := service.New(service.WithLogger(log), service.WithExclusions(cfg.Exclusions))
	stats, err := svc.Load(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	if cfg.Verbose {
		log.Info(ctx, "data loaded",
			logger.Int("rows_raw", stats.RawRows),
			logger.Int("rows_kept", stats.KeptRows),
			logger.Int("rows_dropped_no_year", stats.DroppedNoYear),
			logger.Int("rows_dropped_excluded", stats.DroppedExcluded),
		)
	}

	// Step 3: one selection per metric
	sections := make([]Section, 0, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		evt, err := svc.Select(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("select %s: %w", m, err)
		}
		s := Section{View: evt.View}
		limit := cfg.Limit
		if limit <= 0 {
			limit = len(evt.Series)
		}
		if limit > 0 {
			if s.Entries, err = svc.TopN(ctx, m, limit); err != nil {
				return nil, fmt.Errorf("rank %s: %w", m, err)
			}
		}
		sections = append(sections, s)
	}

	// Step 4: output
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if err := WriteText(out, sections); err != nil {
		return nil, fmt.Errorf("write text: %w", err)
	}
	if cfg.XLSXPath != "" {
		if err := WriteXLSX(cfg.XLSXPath, sections); err != nil {
			return nil, err
		}
		log.Info(ctx, "workbook written", logger.String("path", cfg.XLSXPath))
	}
	return sections, nil
}
