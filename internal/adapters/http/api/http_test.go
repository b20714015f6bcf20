package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/okian/acadash/internal/adapters/http/api"
	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/testkit"
	"github.com/okian/acadash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newRouter(t *testing.T, start bool) http.Handler {
	t.Helper()
	svc := service.New(
		service.WithLogger(logger.NewNop()),
		service.WithDataset(testkit.WriteRecords(t), ""),
		service.WithTracerProvider(noop.NewTracerProvider()),
	)
	if start {
		if err := svc.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		t.Cleanup(svc.Stop)
	}
	r := chi.NewRouter()
	api.NewServer(svc, svc, logger.NewNop()).Register(context.Background(), r)
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func TestServer_API(t *testing.T) {
	Convey("Given a router over a loaded dataset", t, func() {
		h := newRouter(t, true)

		Convey("When listing columns", func() {
			w := get(h, "/api/columns")

			Convey("Then every panel is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Panels []service.PanelView `json:"panels"`
				}
				So(decode(w, &body), ShouldBeNil)
				So(len(body.Panels), ShouldEqual, len(catalog.Default().Panels))
				So(body.Panels[0].Widgets[0].Options[0], ShouldEqual, "Todos")
			})
		})

		Convey("When counting outcomes without filters", func() {
			w := get(h, "/api/outcome")

			Convey("Then every record with an outcome is counted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				var res service.OutcomeResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Rows, ShouldEqual, testkit.RecordsRows)
				total := 0
				for _, b := range res.Buckets {
					total += b.Count
				}
				So(total, ShouldEqual, testkit.RecordsRows-1)
			})
		})

		Convey("When filtering by gender and age", func() {
			q := url.Values{}
			q.Set(catalog.Gender, "Feminino")
			q.Set(catalog.AgeAtEnrollment+".min", "18")
			q.Set(catalog.AgeAtEnrollment+".max", "20")
			w := get(h, "/api/outcome?"+q.Encode())

			Convey("Then only matching records are counted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.OutcomeResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Rows, ShouldEqual, 2)
				So(res.Filters, ShouldContainKey, catalog.Gender)
				So(res.Filters, ShouldContainKey, catalog.AgeAtEnrollment)
			})
		})

		Convey("When only the lower age bound is given", func() {
			q := url.Values{}
			q.Set(catalog.AgeAtEnrollment+".min", "20")
			w := get(h, "/api/outcome?"+q.Encode())

			Convey("Then the body decodes and the open bound is omitted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldBeGreaterThan, 0)
				var res service.OutcomeResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Rows, ShouldEqual, 4)
				So(res.Filters[catalog.AgeAtEnrollment], ShouldResemble, map[string]any{"min": 20.0})
			})
		})

		Convey("When only the upper age bound is given", func() {
			q := url.Values{}
			q.Set(catalog.AgeAtEnrollment+".max", "19")
			w := get(h, "/api/outcome?"+q.Encode())

			Convey("Then the body decodes and the open bound is omitted", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.OutcomeResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Rows, ShouldEqual, 3)
				So(res.Filters[catalog.AgeAtEnrollment], ShouldResemble, map[string]any{"max": 19.0})
			})
		})

		Convey("When the sentinel is selected", func() {
			q := url.Values{}
			q.Set(catalog.Gender, "Todos")
			w := get(h, "/api/outcome?"+q.Encode())

			Convey("Then no constraint applies", func() {
				var res service.OutcomeResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Rows, ShouldEqual, testkit.RecordsRows)
				So(res.Filters, ShouldBeEmpty)
			})
		})

		Convey("When a slider bound is not a number", func() {
			q := url.Values{}
			q.Set(catalog.AgeAtEnrollment+".min", "abc")
			w := get(h, "/api/outcome?"+q.Encode())

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var body map[string]string
				So(decode(w, &body), ShouldBeNil)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When listing groups", func() {
			w := get(h, "/api/groups")

			Convey("Then groups come in catalog order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Groups  []catalog.Group `json:"groups"`
					Default string          `json:"default"`
				}
				So(decode(w, &body), ShouldBeNil)
				So(body.Default, ShouldEqual, "Financeiro")
				So(len(body.Groups), ShouldEqual, 4)
			})
		})

		Convey("When fetching a group", func() {
			w := get(h, "/api/groups/Financeiro")

			Convey("Then each column has its charts", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.GroupResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Name, ShouldEqual, "Financeiro")
				So(len(res.Variables), ShouldEqual, 3)
				So(res.Variables[0].Column, ShouldEqual, catalog.Debtor)
			})
		})

		Convey("When fetching a group with an escaped name", func() {
			w := get(h, "/api/groups/Fam%C3%ADlia")

			Convey("Then the name is decoded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var res service.GroupResult
				So(decode(w, &res), ShouldBeNil)
				So(res.Name, ShouldEqual, "Família")
			})
		})

		Convey("When fetching an unknown group", func() {
			w := get(h, "/api/groups/Nope")

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Charts(t *testing.T) {
	Convey("Given a router over a loaded dataset", t, func() {
		h := newRouter(t, true)

		Convey("When requesting the outcome chart", func() {
			w := get(h, "/charts/outcome.svg")

			Convey("Then an SVG is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/svg+xml")
				So(w.Body.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When requesting both charts of a column", func() {
			path := "/charts/Fam%C3%ADlia/" + url.PathEscape(catalog.MotherQualification)
			dist := get(h, path+"/distribution.svg")
			out := get(h, path+"/outcome.svg")

			Convey("Then both are served", func() {
				So(dist.Code, ShouldEqual, http.StatusOK)
				So(out.Code, ShouldEqual, http.StatusOK)
				So(out.Body.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When the chart kind is unknown", func() {
			w := get(h, "/charts/Financeiro/Devedor/pie.svg")

			Convey("Then a bad request is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the column is not in the group", func() {
			w := get(h, "/charts/Financeiro/Bolsa/outcome.svg")

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Dashboard(t *testing.T) {
	Convey("Given a router over a loaded dataset", t, func() {
		h := newRouter(t, true)

		Convey("When requesting the page with a selection", func() {
			q := url.Values{}
			q.Set(catalog.Gender, "Feminino")
			q.Set("group", "Outros")
			w := get(h, "/?"+q.Encode())

			Convey("Then the page reflects the selection", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, "8 registros")
				So(body, ShouldContainSubstring, "5 registros após os filtros")
				So(body, ShouldContainSubstring, `<option value="Feminino" selected>`)
				So(body, ShouldContainSubstring, "/charts/outcome.svg?")
				So(body, ShouldContainSubstring, "/charts/Outros/Deslocado/distribution.svg")
			})
		})

		Convey("When the group is unknown", func() {
			w := get(h, "/?group=Nope")

			Convey("Then not found is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_NotLoaded(t *testing.T) {
	Convey("Given a router whose service never loaded", t, func() {
		h := newRouter(t, false)

		Convey("Then data endpoints are unavailable", func() {
			So(get(h, "/api/outcome").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(get(h, "/charts/outcome.svg").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(get(h, "/").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Then the catalog is still listed", func() {
			So(get(h, "/api/groups").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_Operational(t *testing.T) {
	Convey("Given a router over a loaded dataset", t, func() {
		h := newRouter(t, true)

		Convey("When requesting stats", func() {
			w := get(h, "/stats")

			Convey("Then service statistics are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(decode(w, &stats), ShouldBeNil)
				So(stats["rows"], ShouldEqual, float64(testkit.RecordsRows))
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When requesting health", func() {
			get(h, "/api/outcome")
			w := get(h, "/healthz")

			Convey("Then metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "acadash_dashboard_dataset_rows")
				So(w.Body.String(), ShouldContainSubstring, "acadash_dashboard_http_requests_total")
			})
		})
	})
}
