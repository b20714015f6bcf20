// Package catalog names the columns the dashboard works with: which ones get
// filter widgets, how they are grouped for charting and how they are drawn.
package catalog

import (
	"github.com/okian/acadash/internal/domain/dataset"
)

// Column names of the academic records dataset.
const (
	Gender               = "Gênero"
	MaritalStatus        = "Estado civil"
	AgeAtEnrollment      = "Idade na inscrição"
	Debtor               = "Devedor"
	TuitionUpToDate      = "Pagamento em dia"
	ScholarshipHolder    = "Bolsista"
	MotherQualification  = "Qualificação da mãe"
	FatherQualification  = "Qualificação do pai"
	Displaced            = "Deslocado"
	SpecialEducationNeed = "Necessidade de educação especial"
	Target               = "Target"
)

// Widget is the input control of a filter.
type Widget string

// Widgets.
const (
	Dropdown Widget = "dropdown"
	Slider   Widget = "range"
)

// Filter is one filter widget.
type Filter struct {
	Column string `json:"column"`
	Widget Widget `json:"widget"`
}

// Panel is a titled set of filter widgets shown together.
type Panel struct {
	Title    string   `json:"title"`
	Expanded bool     `json:"expanded"`
	Filters  []Filter `json:"filters"`
}

// Group is a named set of columns charted together.
type Group struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Orientation of a bar chart.
type Orientation string

// Orientations.
const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// Catalog is the fixed dashboard layout over the dataset columns.
type Catalog struct {
	Outcome    string
	Panels     []Panel
	Groups     []Group
	horizontal map[string]struct{}
	kinds      map[string]dataset.Kind
}

// Default returns the catalog of the academic records dashboard.
func Default() *Catalog {
	return &Catalog{
		Outcome: Target,
		Panels: []Panel{
			{Title: "Dados demográficos", Expanded: true, Filters: []Filter{
				{Column: Gender, Widget: Dropdown},
				{Column: MaritalStatus, Widget: Dropdown},
				{Column: AgeAtEnrollment, Widget: Slider},
			}},
			{Title: "Dados financeiros", Filters: []Filter{
				{Column: Debtor, Widget: Dropdown},
				{Column: TuitionUpToDate, Widget: Dropdown},
				{Column: ScholarshipHolder, Widget: Dropdown},
			}},
			{Title: "Dados familiares", Filters: []Filter{
				{Column: MotherQualification, Widget: Dropdown},
				{Column: FatherQualification, Widget: Dropdown},
			}},
			{Title: "Outros", Filters: []Filter{
				{Column: Displaced, Widget: Dropdown},
				{Column: SpecialEducationNeed, Widget: Dropdown},
			}},
		},
		Groups: []Group{
			{Name: "Financeiro", Columns: []string{Debtor, TuitionUpToDate, ScholarshipHolder}},
			{Name: "Família", Columns: []string{MotherQualification, FatherQualification}},
			{Name: "Demografia", Columns: []string{Gender, MaritalStatus, AgeAtEnrollment}},
			{Name: "Outros", Columns: []string{Displaced, SpecialEducationNeed}},
		},
		horizontal: map[string]struct{}{
			MotherQualification: {},
			FatherQualification: {},
		},
		kinds: map[string]dataset.Kind{
			MotherQualification: dataset.Categorical,
			FatherQualification: dataset.Categorical,
			AgeAtEnrollment:     dataset.Numeric,
		},
	}
}

// WithOutcome returns a copy of c using column as the outcome.
func (c *Catalog) WithOutcome(column string) *Catalog {
	if column == "" {
		return c
	}
	cp := *c
	cp.Outcome = column
	return &cp
}

// Filters returns every filter widget across panels, in panel order.
func (c *Catalog) Filters() []Filter {
	out := make([]Filter, 0)
	for _, p := range c.Panels {
		out = append(out, p.Filters...)
	}
	return out
}

// Group finds a chart group by name.
func (c *Catalog) Group(name string) (Group, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// GroupNames lists the chart groups in display order.
func (c *Catalog) GroupNames() []string {
	out := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = g.Name
	}
	return out
}

// DefaultGroup is the group shown when none is selected.
func (c *Catalog) DefaultGroup() string {
	if len(c.Groups) == 0 {
		return ""
	}
	return c.Groups[0].Name
}

// Orientation returns how column's bars are drawn.
func (c *Catalog) Orientation(column string) Orientation {
	if _, ok := c.horizontal[column]; ok {
		return Horizontal
	}
	return Vertical
}

// Kind returns the declared kind of column, if the catalog pins one.
func (c *Catalog) Kind(column string) (dataset.Kind, bool) {
	k, ok := c.kinds[column]
	return k, ok
}
