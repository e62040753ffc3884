package filter_test

import (
	"sort"
	"testing"

	"github.com/okian/railpulse/internal/domain/filter"
	"github.com/okian/railpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(op string, year int) model.NormalizedRecord {
	return model.NormalizedRecord{Operator: op, Year: year, Pct3m: model.Float(50)}
}

func TestOperatorFilter(t *testing.T) {
	Convey("Given a filter with rollup exclusions", t, func() {
		f := filter.New(map[string]bool{
			"Great Britain": true,
			"Scotland":      true,
			"Lumo":          false,
			"  ":            true,
		})

		Convey("When filtering rows", func() {
			res := f.Filter([]model.NormalizedRecord{
				rec("Great Britain", 2019),
				rec("Avanti West Coast", 2019),
				rec("", 2019),
				rec("   ", 2020),
				rec("Scotland", 2020),
				rec("Lumo", 2020),
				rec("Great Britain [note 1]", 2020),
			})

			Convey("Then excluded and empty operators are removed", func() {
				So(res.DroppedExcluded, ShouldEqual, 2)
				So(res.DroppedEmptyOperator, ShouldEqual, 2)
				ops := []string{}
				for _, r := range res.Records {
					ops = append(ops, r.Operator)
				}
				So(ops, ShouldResemble, []string{"Avanti West Coast", "Lumo", "Great Britain [note 1]"})
			})
		})

		Convey("Then only entries marked true are active", func() {
			names := f.Exclusions()
			sort.Strings(names)
			So(names, ShouldResemble, []string{"Great Britain", "Scotland"})
			So(f.Excluded(" Scotland "), ShouldBeTrue)
			So(f.Excluded("Lumo"), ShouldBeFalse)
		})
	})

	Convey("Given an empty exclusion set", t, func() {
		f := filter.New(nil)

		Convey("Then every named operator passes", func() {
			res := f.Filter([]model.NormalizedRecord{rec("A", 2019), rec("B", 2019)})
			So(len(res.Records), ShouldEqual, 2)
			So(res.DroppedExcluded, ShouldEqual, 0)
		})
	})

	Convey("Given the default exclusions", t, func() {
		f := filter.New(filter.DefaultExclusions())

		Convey("Then national and regional rollups are removed", func() {
			for _, n := range []string{"Great Britain", "England and Wales", "Scotland", "Elizabeth line [note 4]"} {
				So(f.Excluded(n), ShouldBeTrue)
			}
			So(f.Excluded("Northern Trains"), ShouldBeFalse)
		})
	})
}
