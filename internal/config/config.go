// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Defaults come from New; Load layers a YAML file and env vars on top.
//   - Nested keys use "." in YAML and "__" in env names, e.g.
//     RAILPULSE_COLUMNS__OPERATOR.
package config

import (
	"fmt"

	"github.com/okian/railpulse/internal/domain/filter"
	"github.com/okian/railpulse/internal/domain/model"
)

// Columns maps record roles to the headers of the input file.
type Columns struct {
	Operator string `koanf:"operator"`
	Period   string `koanf:"period"`
	Pct59    string `koanf:"pct59"`
	Pct3m    string `koanf:"pct3m"`
	Pct15m   string `koanf:"pct15m"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath is the CSV or XLSX file to load at startup.
	DataPath string `koanf:"data_path"`

	// DataSheet selects the XLSX sheet; empty means the first sheet.
	DataSheet string `koanf:"data_sheet"`

	// DefaultMetric is the metric shown before any selection: 59, 3 or 15.
	DefaultMetric string `koanf:"default_metric"`

	// WorkerCount sets the number of aggregation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the aggregation job queue.
	QueueSize int `koanf:"queue_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	ChartWidth  int `koanf:"chart_width"`
	ChartHeight int `koanf:"chart_height"`

	Columns Columns `koanf:"columns"`

	// ExcludedOperators is the operator exclusion set. A false entry
	// re-includes a default exclusion.
	ExcludedOperators map[string]bool `koanf:"excluded_operators"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DefaultMetric:       model.Within3Min.Key(),
		WorkerCount:         3,
		QueueSize:           16,
		MaxLeaderboardLimit: 100,
		ChartWidth:          1200,
		ChartHeight:         800,
		Columns: Columns{
			Operator: "National or Operator",
			Period:   "Time period",
			Pct59:    "Trains arriving within 59 seconds (percentage)",
			Pct3m:    "Trains arriving within 3 minutes (percentage)",
			Pct15m:   "Trains arriving within 15 minutes (percentage)",
		},
		ExcludedOperators: filter.DefaultExclusions(),
	}
}

// Metric returns the parsed default metric.
func (c *Config) Metric() (model.MetricKind, error) {
	return model.ParseMetric(c.DefaultMetric)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := c.Metric(); err != nil {
		return fmt.Errorf("%w: default_metric: %w", ErrInvalidConfig, err)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("%w: chart size must be positive, got %dx%d", ErrInvalidConfig, c.ChartWidth, c.ChartHeight)
	}
	for name, v := range map[string]string{
		"columns.operator": c.Columns.Operator,
		"columns.period":   c.Columns.Period,
		"columns.pct59":    c.Columns.Pct59,
		"columns.pct3m":    c.Columns.Pct3m,
		"columns.pct15m":   c.Columns.Pct15m,
	} {
		if v == "" {
			return fmt.Errorf("%w: %s must not be empty", ErrInvalidConfig, name)
		}
	}
	return nil
}
