package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/adapters/repository"
	"github.com/okian/acadash/internal/domain/aggregate"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/collapse"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
	"github.com/okian/acadash/internal/testkit"
	"github.com/okian/acadash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	base := []service.Option{
		service.WithLogger(logger.NewNop()),
		service.WithDataset(testkit.WriteRecords(t), ""),
		service.WithTracerProvider(noop.NewTracerProvider()),
		service.WithRegistry(collapse.NewRegistry(
			collapse.WithFallback(collapse.NewThreshold(3, collapse.DefaultCatchAll)),
			collapse.WithAllowLists(collapse.DefaultCatchAll, map[string][]string{
				catalog.SpecialEducationNeed: {"Sim", "Não"},
			}),
		)),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Start(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over the sample records", t, func() {
		svc := newService(t)
		defer svc.Stop()

		Convey("When nothing is loaded yet", func() {
			_, err := svc.Overview(ctx)

			Convey("Then reads report not loaded", func() {
				So(errors.Is(err, repository.ErrNotLoaded), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.GetStats()["rows"], ShouldEqual, 0)
			})
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then the overview reflects the file", func() {
				o, err := svc.Overview(ctx)
				So(err, ShouldBeNil)
				So(o.Rows, ShouldEqual, testkit.RecordsRows)
				So(o.Columns, ShouldEqual, testkit.RecordsColumns)
				So(o.DatasetID, ShouldNotBeEmpty)
				So(o.Version, ShouldEqual, 1)
			})

			Convey("And stats carry the dataset shape", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["rows"], ShouldEqual, testkit.RecordsRows)
				So(stats["collapseOverrides"], ShouldResemble, []string{catalog.SpecialEducationNeed})
			})

			Convey("And a reload publishes a new version", func() {
				So(svc.Reload(ctx), ShouldBeNil)
				o, _ := svc.Overview(ctx)
				So(o.Version, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a service pointing at a missing file", t, func() {
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithDataset("/nonexistent/records.csv", ""),
		)

		Convey("Then Start fails", func() {
			err := svc.Start(ctx)
			So(errors.Is(err, service.ErrStart), ShouldBeTrue)
		})
	})

	Convey("Given a service pointing at an unsupported format", t, func() {
		svc := service.New(
			service.WithLogger(logger.NewNop()),
			service.WithDataset("records.parquet", ""),
		)

		Convey("Then Start fails", func() {
			So(errors.Is(svc.Start(ctx), service.ErrStart), ShouldBeTrue)
		})
	})
}

func TestService_Columns(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newService(t)
		So(svc.Start(ctx), ShouldBeNil)

		panels, err := svc.Columns(ctx)
		So(err, ShouldBeNil)

		Convey("Then panels follow the catalog", func() {
			So(len(panels), ShouldEqual, 4)
			So(panels[0].Expanded, ShouldBeTrue)
		})

		Convey("Then dropdowns start with the sentinel", func() {
			gender := panels[0].Widgets[0]
			So(gender.Column, ShouldEqual, catalog.Gender)
			So(gender.Options, ShouldResemble, []string{"Todos", "Feminino", "Masculino"})
		})

		Convey("Then the slider spans the age extent", func() {
			age := panels[0].Widgets[2]
			So(age.Widget, ShouldEqual, catalog.Slider)
			So(age.Min, ShouldEqual, 18)
			So(age.Max, ShouldEqual, 42)
			So(age.Summary, ShouldNotBeNil)
			So(age.Summary.Count, ShouldEqual, 7)
		})
	})
}

func TestService_Filter(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newService(t)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When no constraint is chosen", func() {
			res, err := svc.OutcomeCounts(ctx, svc.NewBuilder().Equal(catalog.Gender, "Todos").Range(catalog.AgeAtEnrollment, 18, 42).Build())

			Convey("Then every record is counted, ascending, without missing outcomes", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldEqual, testkit.RecordsRows)
				So(res.Buckets, ShouldResemble, []aggregate.Bucket{
					{Value: "Matriculado", Count: 1},
					{Value: "Desistente", Count: 2},
					{Value: "Graduado", Count: 4},
				})
			})
		})

		Convey("When filtering by gender", func() {
			sel := svc.NewBuilder().Equal(catalog.Gender, "Feminino").Build()
			res, err := svc.OutcomeCounts(ctx, sel)

			Convey("Then only matching records count", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldEqual, 5)
				So(res.Buckets, ShouldResemble, []aggregate.Bucket{
					{Value: "Matriculado", Count: 1},
					{Value: "Graduado", Count: 3},
				})
				So(res.Filters, ShouldContainKey, catalog.Gender)
			})
		})

		Convey("When combining a dropdown and a narrowed range", func() {
			sel := svc.NewBuilder().
				Equal(catalog.Gender, "Feminino").
				Range(catalog.AgeAtEnrollment, 20, 18).
				Build()
			ds, err := svc.Filter(ctx, sel)

			Convey("Then records without an age are excluded", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2)
				So(ds.Values(catalog.AgeAtEnrollment), ShouldResemble, []string{"18", "19"})
			})

			Convey("Then filtering the result again changes nothing", func() {
				again := sel.Apply(ds)
				So(again.Len(), ShouldEqual, ds.Len())
			})
		})

		Convey("When nothing matches", func() {
			sel := svc.NewBuilder().Equal(catalog.MaritalStatus, "Viúvo").Build()
			res, err := svc.OutcomeCounts(ctx, sel)

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldEqual, 0)
				So(res.Buckets, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Group(t *testing.T) {
	ctx := context.Background()
	feminine := filter.New(filter.Equal{Col: catalog.Gender, Value: "Feminino"})

	Convey("Given a started service", t, func() {
		svc := newService(t)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When charting the financial group", func() {
			g, err := svc.Group(ctx, "Financeiro", feminine)
			So(err, ShouldBeNil)

			Convey("Then group charts ignore the selection", func() {
				So(g.Filtered, ShouldBeFalse)
				So(g.Rows, ShouldEqual, testkit.RecordsRows)
			})

			Convey("Then rare debtor values collapse into the catch-all", func() {
				debtor := g.Variables[0]
				So(debtor.Column, ShouldEqual, catalog.Debtor)
				So(debtor.Policy, ShouldEqual, "threshold")
				So(debtor.Distribution, ShouldResemble, []aggregate.Bucket{
					{Value: "Outro", Count: 2},
					{Value: "Não", Count: 6},
				})
				So(debtor.Cross, ShouldResemble, []aggregate.CrossBucket{
					{Value: "Não", Outcome: "Matriculado", Count: 1},
					{Value: "Outro", Outcome: "Desistente", Count: 2},
					{Value: "Não", Outcome: "Graduado", Count: 4},
				})
			})

			Convey("Then commentary is rendered as HTML", func() {
				So(g.Variables[0].Commentary[insight.Distribution], ShouldContainSubstring, "<p>")
			})
		})

		Convey("When charting the other group", func() {
			g, err := svc.Group(ctx, "Outros", filter.New())
			So(err, ShouldBeNil)

			Convey("Then the allow-list column keeps only Sim and Não", func() {
				need := g.Variables[1]
				So(need.Policy, ShouldEqual, "allow_list")
				So(need.Distribution, ShouldResemble, []aggregate.Bucket{
					{Value: "Sim", Count: 1},
					{Value: "Outro", Count: 1},
					{Value: "Não", Count: 6},
				})
			})
		})

		Convey("When parents' qualification is charted", func() {
			v, err := svc.Variable(ctx, "Família", catalog.MotherQualification, filter.New())

			Convey("Then bars are horizontal", func() {
				So(err, ShouldBeNil)
				So(v.Orientation, ShouldEqual, catalog.Horizontal)
			})
		})

		Convey("When the group is unknown", func() {
			_, err := svc.Group(ctx, "Saúde", filter.New())
			So(errors.Is(err, service.ErrUnknownGroup), ShouldBeTrue)
		})

		Convey("When the column is not in the group", func() {
			_, err := svc.Variable(ctx, "Financeiro", catalog.Gender, filter.New())
			So(errors.Is(err, service.ErrUnknownColumn), ShouldBeTrue)
		})
	})

	Convey("Given group charts that follow the filters", t, func() {
		svc := newService(t, service.WithGroupChartsFiltered(true))
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then the group uses the filtered records", func() {
			g, err := svc.Group(ctx, "Financeiro", feminine)
			So(err, ShouldBeNil)
			So(g.Filtered, ShouldBeTrue)
			So(g.Rows, ShouldEqual, 5)
		})
	})
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newService(t)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When assembling the page without a group", func() {
			d, err := svc.Dashboard(ctx, filter.New(), "")

			Convey("Then the first group is shown", func() {
				So(err, ShouldBeNil)
				So(d.Group.Name, ShouldEqual, "Financeiro")
				So(d.Groups, ShouldResemble, []string{"Financeiro", "Família", "Demografia", "Outros"})
				So(d.Overview.Rows, ShouldEqual, testkit.RecordsRows)
				So(d.Sentinel, ShouldEqual, "Todos")
			})

			Convey("Then the legend lists outcomes in first-appearance order", func() {
				labels := make([]string, len(d.Legend))
				for i, e := range d.Legend {
					labels[i] = e.Label
				}
				So(labels, ShouldResemble, []string{"Graduado", "Desistente", "Matriculado"})
			})
		})

		Convey("When the group is unknown", func() {
			_, err := svc.Dashboard(ctx, filter.New(), "Nope")
			So(errors.Is(err, service.ErrUnknownGroup), ShouldBeTrue)
		})
	})
}

func TestService_Charts(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := newService(t)
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When drawing the outcome chart", func() {
			var buf bytes.Buffer
			err := svc.OutcomeChart(ctx, &buf, filter.New())
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "<svg")
		})

		Convey("When drawing a cross-tab chart", func() {
			var buf bytes.Buffer
			err := svc.VariableChart(ctx, &buf, "Família", catalog.FatherQualification, insight.Outcome, filter.New())
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "<svg")
		})

		Convey("When drawing a distribution chart", func() {
			var buf bytes.Buffer
			err := svc.VariableChart(ctx, &buf, "Outros", catalog.Displaced, insight.Distribution, filter.New())
			So(err, ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("When the chart kind is unknown", func() {
			_, err := service.ParseChartKind("pie")
			So(errors.Is(err, service.ErrUnknownChart), ShouldBeTrue)
			k, err := service.ParseChartKind("outcome")
			So(err, ShouldBeNil)
			So(k, ShouldEqual, insight.Outcome)
		})
	})
}
