package config_test

import (
	"errors"
	"testing"

	"github.com/okian/railpulse/internal/config"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Columns.Operator, convey.ShouldEqual, "National or Operator")
			convey.So(cfg.ExcludedOperators["Great Britain"], convey.ShouldBeTrue)
			m, err := cfg.Metric()
			convey.So(err, convey.ShouldBeNil)
			convey.So(m, convey.ShouldEqual, model.Within3Min)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs with invalid settings", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":     func(c *config.Config) { c.Addr = "" },
			"unknown metric": func(c *config.Config) { c.DefaultMetric = "7" },
			"zero width":     func(c *config.Config) { c.ChartWidth = 0 },
			"empty column":   func(c *config.Config) { c.Columns.Period = "" },
		}

		convey.Convey("Then Validate rejects each one", func() {
			for name, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.Printf("%s: %v\n", name, err)
			}
		})
	})
}
