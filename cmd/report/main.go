package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/railpulse/internal/adapters/source"
	"github.com/okian/railpulse/internal/config"
	"github.com/okian/railpulse/internal/report"
	"github.com/okian/railpulse/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	// keep stdout for the report itself
	_ = logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Flags default to the service configuration (defaults -> file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	var (
		dataPath = flag.String("data", cfg.DataPath, "CSV or XLSX input")
		sheet    = flag.String("sheet", cfg.DataSheet, "XLSX sheet (default: first sheet)")
		metric   = flag.String("metric", "all", `Metric to report: 59, 3, 15, a list or "all"`)
		xlsxPath = flag.String("xlsx", "", "Write the report to this workbook")
		exclude  = flag.String("exclude", "", "Comma separated operators to exclude")
		limit    = flag.Int("limit", 0, "Operators listed per metric, 0 for all")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		report.ShowHelp(os.Stdout)
		return
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	metrics, err := report.ParseMetrics(*metric)
	if err != nil {
		logger.Get().Error(ctx, "invalid -metric", logger.String("metric", *metric), logger.Error(err))
		os.Exit(2)
	}

	rc := &report.Config{
		DataPath:   *dataPath,
		Sheet:      *sheet,
		Metrics:    metrics,
		XLSXPath:   *xlsxPath,
		Exclusions: report.MergeExclusions(cfg.ExcludedOperators, *exclude),
		Columns:    source.Columns(cfg.Columns),
		Limit:      *limit,
		Verbose:    *verbose,
		Out:        os.Stdout,
	}
	if _, err := report.Run(ctx, rc); err != nil {
		logger.Get().Error(ctx, "report failed", logger.Error(err))
		if errors.Is(err, report.ErrNoData) {
			report.ShowHelp(os.Stderr)
		}
		os.Exit(1)
	}
}
