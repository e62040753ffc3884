package report_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/railpulse/internal/adapters/source"
	"github.com/okian/railpulse/internal/domain/filter"
	"github.com/okian/railpulse/internal/domain/model"
	"github.com/okian/railpulse/internal/report"
	"github.com/okian/railpulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCSV = `National or Operator,Time period,Trains arriving within 59 seconds (percentage),Trains arriving within 3 minutes (percentage),Trains arriving within 15 minutes (percentage)
Great Britain,2019/20,60,80,95
A,2019/20,10,50,90
A,2020/21,20,60,95
B,2019/20,30,70,99
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "punctuality.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseMetrics(t *testing.T) {
	Convey("Given metric flag values", t, func() {
		Convey("Then all and empty select every metric", func() {
			all, err := report.ParseMetrics("all")
			So(err, ShouldBeNil)
			So(all, ShouldResemble, model.Metrics())
			empty, _ := report.ParseMetrics("")
			So(empty, ShouldResemble, model.Metrics())
		})

		Convey("Then lists keep their order and drop repeats", func() {
			ms, err := report.ParseMetrics("15, Within59Sec,15")
			So(err, ShouldBeNil)
			So(ms, ShouldResemble, []model.MetricKind{model.Within15Min, model.Within59Sec})
		})

		Convey("Then unknown metrics are rejected", func() {
			_, err := report.ParseMetrics("3,7")
			So(errors.Is(err, model.ErrInvalidSelection), ShouldBeTrue)
		})
	})
}

func TestMergeExclusions(t *testing.T) {
	Convey("Given the default exclusions", t, func() {
		base := filter.DefaultExclusions()

		Convey("When adding extra names", func() {
			merged := report.MergeExclusions(base, " Merseyrail ,,Avanti West Coast")

			Convey("Then both sets are excluded and the base is untouched", func() {
				So(merged["Merseyrail"], ShouldBeTrue)
				So(merged["Avanti West Coast"], ShouldBeTrue)
				So(merged["Great Britain"], ShouldBeTrue)
				So(base["Merseyrail"], ShouldBeFalse)
			})
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a punctuality file", t, func() {
		ctx := context.Background()
		var out bytes.Buffer
		cfg := &report.Config{
			DataPath:   writeSample(t),
			Metrics:    model.Metrics(),
			Exclusions: filter.DefaultExclusions(),
			Columns:    source.DefaultColumns(),
			Out:        &out,
		}

		Convey("When running the text report", func() {
			sections, err := report.Run(ctx, cfg)

			Convey("Then every metric gets a section", func() {
				So(err, ShouldBeNil)
				So(len(sections), ShouldEqual, 3)
				So(sections[1].View.Metric, ShouldEqual, model.Within3Min)
				So(sections[1].Entries[0].Operator, ShouldEqual, "B")
			})

			Convey("And the text holds the title, labels and summary lines", func() {
				text := out.String()
				So(text, ShouldStartWith, "How many trains are on time in the UK?\n")
				So(text, ShouldContainSubstring, "Trains arriving within 59 seconds")
				So(text, ShouldContainSubstring, "Best Performer: B at 70.0%")
				So(text, ShouldContainSubstring, "Median Performance: 62.5%")
				So(text, ShouldNotContainSubstring, "Great Britain")
			})
		})

		Convey("When exporting a workbook", func() {
			cfg.XLSXPath = filepath.Join(t.TempDir(), "report.xlsx")
			cfg.Metrics = []model.MetricKind{model.Within3Min}
			_, err := report.Run(ctx, cfg)
			So(err, ShouldBeNil)

			f, err := excelize.OpenFile(cfg.XLSXPath)
			So(err, ShouldBeNil)
			defer func() { _ = f.Close() }()

			Convey("Then it has a summary sheet and one sheet per metric", func() {
				So(f.GetSheetList(), ShouldResemble, []string{"Summary", "Within3Min"})
				title, _ := f.GetCellValue("Summary", "A1")
				So(title, ShouldEqual, "How many trains are on time in the UK?")
				best, _ := f.GetCellValue("Summary", "B3")
				So(best, ShouldEqual, "Best Performer: B at 70.0%")
			})

			Convey("And the metric sheet lists ranked operators by year", func() {
				rows, err := f.GetRows("Within3Min", excelize.Options{RawCellValue: true})
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"Rank", "Operator", "Mean", "2019", "2020"})
				So(rows[1][:4], ShouldResemble, []string{"1", "B", "70", "70"})
				So(rows[2], ShouldResemble, []string{"2", "A", "55", "50", "60"})
			})
		})

		Convey("When the limit is set", func() {
			cfg.Limit = 1
			sections, err := report.Run(ctx, cfg)
			So(err, ShouldBeNil)
			So(len(sections[0].Entries), ShouldEqual, 1)
		})

		Convey("When no data file is given", func() {
			cfg.DataPath = ""
			_, err := report.Run(ctx, cfg)
			So(errors.Is(err, report.ErrNoData), ShouldBeTrue)
		})
	})
}
