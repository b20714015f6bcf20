package collapse_test

import (
	"testing"

	"github.com/okian/acadash/internal/domain/collapse"
	. "github.com/smartystreets/goconvey/convey"
)

func counts(values []string) map[string]int {
	out := make(map[string]int)
	for _, v := range values {
		out[v]++
	}
	return out
}

func TestThreshold(t *testing.T) {
	Convey("Given a threshold of 3", t, func() {
		p := collapse.NewThreshold(3, "Outro")
		in := []string{"A", "A", "A", "B", "B", "C"}

		Convey("When collapsing", func() {
			out := p.Apply(in)

			Convey("Then A is kept and B, C fold into the catch-all", func() {
				So(counts(out), ShouldResemble, map[string]int{"A": 3, "Outro": 3})
			})

			Convey("Then the total count is preserved", func() {
				So(len(out), ShouldEqual, len(in))
			})

			Convey("Then every value is frequent or the catch-all", func() {
				before := counts(in)
				for _, v := range out {
					if v == "Outro" {
						continue
					}
					So(before[v], ShouldBeGreaterThanOrEqualTo, 3)
				}
			})

			Convey("Then the input is not modified", func() {
				So(in, ShouldResemble, []string{"A", "A", "A", "B", "B", "C"})
			})
		})
	})

	Convey("Given zero values for the threshold fields", t, func() {
		p := collapse.NewThreshold(0, "")

		Convey("Then the defaults apply", func() {
			So(p.Min, ShouldEqual, 71)
			So(p.CatchAll, ShouldEqual, "Outro")
			So(p.Name(), ShouldEqual, "threshold")
		})
	})

	Convey("Given an empty column", t, func() {
		So(collapse.NewThreshold(3, "x").Apply(nil), ShouldBeEmpty)
	})
}

func TestAllowList(t *testing.T) {
	Convey("Given the special-education allow list", t, func() {
		p := collapse.NewAllowList("Outro", "Sim", "Não")

		Convey("When collapsing [Sim, Não, Talvez, Sim]", func() {
			out := p.Apply([]string{"Sim", "Não", "Talvez", "Sim"})

			Convey("Then the result counts Sim:2, Não:1, Outro:1", func() {
				So(out, ShouldResemble, []string{"Sim", "Não", "Outro", "Sim"})
				So(counts(out), ShouldResemble, map[string]int{"Sim": 2, "Não": 1, "Outro": 1})
			})
		})

		Convey("Then frequent values outside the list still collapse", func() {
			in := make([]string, 0, 200)
			for i := 0; i < 200; i++ {
				in = append(in, "Talvez")
			}
			So(counts(p.Apply(in)), ShouldResemble, map[string]int{"Outro": 200})
		})

		Convey("Then it reports its allowed values", func() {
			So(p.Allowed(), ShouldResemble, []string{"Sim", "Não"})
			So(p.Name(), ShouldEqual, "allow_list")
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given a registry with one allow-list column", t, func() {
		r := collapse.NewRegistry(
			collapse.WithFallback(collapse.NewThreshold(2, "Outro")),
			collapse.WithAllowLists("Outro", map[string][]string{
				"Necessidade de educação especial": {"Sim", "Não"},
			}),
		)

		Convey("Then the override column uses the allow list", func() {
			So(r.For("Necessidade de educação especial").Name(), ShouldEqual, "allow_list")
			So(r.Overrides(), ShouldResemble, []string{"Necessidade de educação especial"})
		})

		Convey("Then other columns use the threshold", func() {
			out := r.Apply("Gênero", []string{"F", "F", "M"})
			So(out, ShouldResemble, []string{"F", "F", "Outro"})
		})

		Convey("Then an explicit column policy can be registered", func() {
			r2 := collapse.NewRegistry(collapse.WithColumnPolicy("Bolsista", collapse.NewAllowList("", "Sim")))
			So(r2.Apply("Bolsista", []string{"Sim", "Não"}), ShouldResemble, []string{"Sim", "Outro"})
			So(r2.For("x").(collapse.Threshold).Min, ShouldEqual, 71)
		})
	})
}
