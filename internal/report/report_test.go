package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"math"
	"testing"

	"github.com/okian/acadash/internal/config"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/report"
	"github.com/okian/acadash/internal/testkit"
	"github.com/okian/acadash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseArgs(t *testing.T) {
	Convey("Given command-line arguments", t, func() {
		Convey("When repeatable filters are passed", func() {
			cfg, err := report.ParseArgs([]string{
				"-data", "records.csv",
				"-group", "Família",
				"-filter", "Gênero=Feminino",
				"-filter", "Bolsista=Sim",
				"-range", "Idade na inscrição=18:25",
				"-json",
			}, io.Discard)

			Convey("Then every option is collected", func() {
				So(err, ShouldBeNil)
				So(cfg.DataPath, ShouldEqual, "records.csv")
				So(cfg.Group, ShouldEqual, "Família")
				So(cfg.Filters, ShouldResemble, []string{"Gênero=Feminino", "Bolsista=Sim"})
				So(cfg.Ranges, ShouldResemble, []string{"Idade na inscrição=18:25"})
				So(cfg.JSON, ShouldBeTrue)
			})
		})

		Convey("When help is requested", func() {
			var out bytes.Buffer
			_, err := report.ParseArgs([]string{"-h"}, &out)

			Convey("Then usage is printed", func() {
				So(errors.Is(err, flag.ErrHelp), ShouldBeTrue)
				So(out.String(), ShouldContainSubstring, "Usage:")
			})
		})

		Convey("When an unknown flag or a stray argument is passed", func() {
			_, err := report.ParseArgs([]string{"-nope"}, io.Discard)
			So(errors.Is(err, report.ErrUsage), ShouldBeTrue)

			_, err = report.ParseArgs([]string{"extra"}, io.Discard)
			So(errors.Is(err, report.ErrUsage), ShouldBeTrue)
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("Given filter expressions", t, func() {
		Convey("When they are well formed", func() {
			sel, err := report.Selection(filter.NewBuilder("Todos"),
				[]string{"Gênero=Feminino", "Devedor=Todos"},
				[]string{"Idade na inscrição=18:", "Nota=:9.5"},
			)

			Convey("Then the sentinel is dropped and open bounds are infinite", func() {
				So(err, ShouldBeNil)
				So(sel.Len(), ShouldEqual, 3)
				c, _ := sel.Get("Idade na inscrição")
				r := c.(filter.Range)
				So(r.Min, ShouldEqual, 18)
				So(math.IsInf(r.Max, 1), ShouldBeTrue)
				c, _ = sel.Get("Nota")
				So(math.IsInf(c.(filter.Range).Min, -1), ShouldBeTrue)
			})
		})

		Convey("When they are malformed", func() {
			for _, tc := range []struct{ filters, ranges []string }{
				{filters: []string{"Gênero"}},
				{filters: []string{"=Feminino"}},
				{ranges: []string{"Idade=18"}},
				{ranges: []string{"Idade=a:b"}},
				{ranges: []string{"Idade=NaN:3"}},
			} {
				_, err := report.Selection(filter.NewBuilder(""), tc.filters, tc.ranges)
				So(errors.Is(err, report.ErrBadFilter), ShouldBeTrue)
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given the sample records", t, func() {
		ctx := context.Background()
		base := config.New()
		base.RareThreshold = 3
		opts := &report.Config{
			DataPath: testkit.WriteRecords(t),
			Group:    "Financeiro",
			Filters:  []string{catalog.Gender + "=Feminino"},
		}

		Convey("When printing JSON", func() {
			opts.JSON = true
			var out bytes.Buffer
			err := report.Run(ctx, base, opts, logger.NewNop(), &out)

			Convey("Then the report decodes", func() {
				So(err, ShouldBeNil)
				var rep report.Report
				So(json.Unmarshal(out.Bytes(), &rep), ShouldBeNil)
				So(rep.Overview.Rows, ShouldEqual, testkit.RecordsRows)
				So(rep.Outcome.Rows, ShouldEqual, 5)
				So(rep.Group.Name, ShouldEqual, "Financeiro")
				So(rep.Group.Filtered, ShouldBeFalse)
				So(rep.Group.Rows, ShouldEqual, testkit.RecordsRows)
			})
		})

		Convey("When group aggregates follow the filters", func() {
			opts.JSON = true
			opts.GroupsFiltered = true
			var out bytes.Buffer
			So(report.Run(ctx, base, opts, logger.NewNop(), &out), ShouldBeNil)

			Convey("Then the group counts only matching records", func() {
				var rep report.Report
				So(json.Unmarshal(out.Bytes(), &rep), ShouldBeNil)
				So(rep.Group.Filtered, ShouldBeTrue)
				So(rep.Group.Rows, ShouldEqual, 5)
			})
		})

		Convey("When printing text", func() {
			var out bytes.Buffer
			err := report.Run(ctx, base, opts, logger.NewNop(), &out)

			Convey("Then tables are written", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "Registros filtrados:")
				So(out.String(), ShouldContainSubstring, "Gênero=Feminino")
				So(out.String(), ShouldContainSubstring, "== "+catalog.Debtor)
				So(out.String(), ShouldContainSubstring, "Grupo Financeiro")
			})
		})

		Convey("When a range has only a lower bound", func() {
			opts.JSON = true
			opts.Ranges = []string{catalog.AgeAtEnrollment + "=18:"}
			var out bytes.Buffer
			err := report.Run(ctx, base, opts, logger.NewNop(), &out)

			Convey("Then the JSON report is written without the open bound", func() {
				So(err, ShouldBeNil)
				var rep report.Report
				So(json.Unmarshal(out.Bytes(), &rep), ShouldBeNil)
				So(rep.Outcome.Rows, ShouldEqual, 4)
				So(rep.Outcome.Filters[catalog.AgeAtEnrollment], ShouldResemble, map[string]any{"min": 18.0})
			})
		})

		Convey("When a filter names a column the dataset lacks", func() {
			opts.Filters = []string{"Genero=Feminino"}
			err := report.Run(ctx, base, opts, logger.NewNop(), io.Discard)

			Convey("Then the filter is rejected", func() {
				So(errors.Is(err, report.ErrBadFilter), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "Genero")
			})
		})

		Convey("When a range names a column the dataset lacks", func() {
			opts.Ranges = []string{"Idade=18:20"}
			err := report.Run(ctx, base, opts, logger.NewNop(), io.Discard)

			Convey("Then the range is rejected", func() {
				So(errors.Is(err, report.ErrBadFilter), ShouldBeTrue)
			})
		})

		Convey("When the group is unknown", func() {
			opts.Group = "Nope"
			err := report.Run(ctx, base, opts, logger.NewNop(), io.Discard)

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
