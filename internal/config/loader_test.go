package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/railpulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DefaultMetric, convey.ShouldEqual, "3")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.ChartWidth, convey.ShouldEqual, 1200)
				convey.So(cfg.ChartHeight, convey.ShouldEqual, 800)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RAILPULSE_ADDR", ":8080")
			_ = os.Setenv("RAILPULSE_DATA_PATH", "/data/punctuality.csv")
			_ = os.Setenv("RAILPULSE_DEFAULT_METRIC", "15")
			_ = os.Setenv("RAILPULSE_WORKER_COUNT", "6")
			_ = os.Setenv("RAILPULSE_LOG_FORMAT", "json")
			_ = os.Setenv("RAILPULSE_COLUMNS__OPERATOR", "Operator")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/data/punctuality.csv")
				convey.So(cfg.DefaultMetric, convey.ShouldEqual, "15")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Columns.Operator, convey.ShouldEqual, "Operator")
				convey.So(cfg.Columns.Period, convey.ShouldEqual, "Time period")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_path: "./punctuality.xlsx"
data_sheet: "Table 3124"
queue_size: 8
worker_count: 2
chart_width: 800
columns:
  period: "Period"
excluded_operators:
  Lumo: false
  "Caledonian Sleeper": true
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAILPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataPath, convey.ShouldEqual, "./punctuality.xlsx")
				convey.So(cfg.DataSheet, convey.ShouldEqual, "Table 3124")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 8)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
				convey.So(cfg.ChartWidth, convey.ShouldEqual, 800)
				convey.So(cfg.ChartHeight, convey.ShouldEqual, 800)
				convey.So(cfg.Columns.Period, convey.ShouldEqual, "Period")
				convey.So(cfg.Columns.Operator, convey.ShouldEqual, "National or Operator")
			})

			convey.Convey("And exclusions merge with the defaults", func() {
				convey.So(cfg.ExcludedOperators["Lumo"], convey.ShouldBeFalse)
				convey.So(cfg.ExcludedOperators["Caledonian Sleeper"], convey.ShouldBeTrue)
				convey.So(cfg.ExcludedOperators["Scotland"], convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 8
worker_count: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAILPULSE_CONFIG", tmpFile)
			_ = os.Setenv("RAILPULSE_ADDR", ":8080")
			_ = os.Setenv("RAILPULSE_WORKER_COUNT", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")  // Overridden by env
				convey.So(cfg.QueueSize, convey.ShouldEqual, 8)   // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 5) // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAILPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RAILPULSE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("RAILPULSE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown default metric", func() {
			_ = os.Setenv("RAILPULSE_DEFAULT_METRIC", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RAILPULSE_QUEUE_SIZE", "invalid")
			_ = os.Setenv("RAILPULSE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderEdgeCases(t *testing.T) {
	convey.Convey("Given config loader edge cases", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
default_metric: Within59Sec
# Another comment
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RAILPULSE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DefaultMetric, convey.ShouldEqual, "Within59Sec")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with special characters in addr", func() {
			_ = os.Setenv("RAILPULSE_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should keep the address verbatim", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080")
			})
		})

		convey.Convey("When loading config with a negative chart height", func() {
			_ = os.Setenv("RAILPULSE_CHART_HEIGHT", "-1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RAILPULSE_CONFIG",
		"RAILPULSE_ADDR",
		"RAILPULSE_DATA_PATH",
		"RAILPULSE_DEFAULT_METRIC",
		"RAILPULSE_QUEUE_SIZE",
		"RAILPULSE_WORKER_COUNT",
		"RAILPULSE_LOG_FORMAT",
		"RAILPULSE_CHART_HEIGHT",
		"RAILPULSE_COLUMNS__OPERATOR",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "railpulse-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
