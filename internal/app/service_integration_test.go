package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okian/railpulse/internal/app"
	"github.com/okian/railpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service fed with many operators", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rows := make([]model.RawRecord, 0, 200)
		for op := 0; op < 20; op++ {
			for year := 2010; year < 2020; year++ {
				rows = append(rows, model.RawRecord{
					Operator: fmt.Sprintf("Operator %02d", op),
					Period:   fmt.Sprintf("%d/%02d", year, (year+1)%100),
					Pct59:    float64(op),
					Pct3m:    float64(op + 10),
					Pct15m:   float64(op + 20),
				})
			}
		}

		Convey("When loading through a queue smaller than the job count", func() {
			stats, err := svc.Load(ctx, rows)
			So(err, ShouldBeNil)
			So(stats.KeptRows, ShouldEqual, 200)

			Convey("Then every metric has one point per operator and year", func() {
				So(stats.Points["59"], ShouldEqual, 200)
				So(stats.Points["15"], ShouldEqual, 200)
			})

			Convey("And concurrent selections settle on a valid metric", func() {
				var wg sync.WaitGroup
				for i := 0; i < 30; i++ {
					wg.Add(1)
					go func(m model.MetricKind) {
						defer wg.Done()
						_, _ = svc.Select(ctx, m)
					}(model.Metrics()[i%3])
				}
				wg.Wait()

				v, err := svc.View(ctx)
				So(err, ShouldBeNil)
				cur, _ := svc.Current(ctx)
				So(v.Metric, ShouldEqual, cur)
				So(v.Series[0].Operator, ShouldEqual, "Operator 19")
				So(len(v.Years), ShouldEqual, 10)
			})

			Convey("And a reload replaces the data", func() {
				_, err := svc.Load(ctx, rows[:10])
				So(err, ShouldBeNil)
				entries, err := svc.TopN(ctx, model.Within3Min, 50)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})
	})
}
