package insight_test

import (
	"errors"
	"testing"

	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/insight"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBook(t *testing.T) {
	Convey("Given a book with a templated entry", t, func() {
		book, err := insight.NewBook(map[string]insight.Commentary{
			"Bolsista": {
				Distribution: "**{{.Column}}** em {{.Rows}} registros",
			},
		})
		So(err, ShouldBeNil)

		Convey("Then the markdown is filled with the data", func() {
			md, err := book.Markdown("Bolsista", insight.Distribution, insight.Data{Rows: 12})
			So(err, ShouldBeNil)
			So(md, ShouldEqual, "**Bolsista** em 12 registros")
		})

		Convey("Then HTML output uses strong tags", func() {
			out, err := book.HTML("Bolsista", insight.Distribution, insight.Data{Rows: 3})
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "<strong>Bolsista</strong> em 3 registros")
		})

		Convey("Then a missing kind or column renders nothing", func() {
			So(book.Has("Bolsista", insight.Outcome), ShouldBeFalse)
			out, err := book.HTML("Bolsista", insight.Outcome, insight.Data{})
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)

			out, err = book.HTML("Turno", insight.Distribution, insight.Data{})
			So(err, ShouldBeNil)
			So(out, ShouldBeEmpty)
		})
	})

	Convey("Given a malformed template", t, func() {
		_, err := insight.NewBook(map[string]insight.Commentary{"x": {Outcome: "{{.Column"}})

		Convey("Then the error is a template error", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, insight.ErrTemplate), ShouldBeTrue)
		})
	})

	Convey("Given raw HTML in markdown", t, func() {
		out := insight.ToHTML("ok <script>alert(1)</script>")

		Convey("Then the HTML is dropped", func() {
			So(out, ShouldNotContainSubstring, "<script>")
		})
	})

	Convey("Given the default book", t, func() {
		book := insight.Default()

		Convey("Then every charted column has both commentaries", func() {
			for _, g := range catalog.Default().Groups {
				for _, col := range g.Columns {
					if col == catalog.AgeAtEnrollment {
						continue
					}
					So(book.Has(col, insight.Distribution), ShouldBeTrue)
					So(book.Has(col, insight.Outcome), ShouldBeTrue)
				}
			}
		})
	})
}
