package service

import (
	"time"

	"github.com/okian/acadash/internal/adapters/render"
	"github.com/okian/acadash/internal/domain/aggregate"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/dataset"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
)

// Widget is one filter control with the choices the dataset offers.
type Widget struct {
	Column  string           `json:"column"`
	Widget  catalog.Widget   `json:"widget"`
	Present bool             `json:"present"`
	Options []string         `json:"options,omitempty"`
	Min     float64          `json:"min,omitempty"`
	Max     float64          `json:"max,omitempty"`
	Summary *dataset.Summary `json:"summary,omitempty"`
}

// PanelView is a titled group of widgets.
type PanelView struct {
	Title    string   `json:"title"`
	Expanded bool     `json:"expanded"`
	Widgets  []Widget `json:"widgets"`
}

// Overview describes the loaded dataset.
type Overview struct {
	DatasetID string    `json:"datasetId"`
	Source    string    `json:"source"`
	Version   uint64    `json:"version"`
	LoadedAt  time.Time `json:"loadedAt"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
}

// OutcomeResult is the outcome distribution of the filtered records.
type OutcomeResult struct {
	Column  string             `json:"column"`
	Rows    int                `json:"rows"`
	Filters map[string]any     `json:"filters"`
	Buckets []aggregate.Bucket `json:"buckets"`
}

// VariableView holds both charts of one group column.
type VariableView struct {
	Column       string                  `json:"column"`
	Present      bool                    `json:"present"`
	Orientation  catalog.Orientation     `json:"orientation"`
	Policy       string                  `json:"policy"`
	Distribution []aggregate.Bucket      `json:"distribution"`
	Cross        []aggregate.CrossBucket `json:"cross"`
	Outcomes     []string                `json:"outcomes"`
	// Commentary is rendered HTML keyed by chart kind.
	Commentary map[insight.Kind]string `json:"commentary,omitempty"`
}

// GroupResult is the chart set of one group.
type GroupResult struct {
	Name      string         `json:"name"`
	Filtered  bool           `json:"filtered"`
	Rows      int            `json:"rows"`
	Variables []VariableView `json:"variables"`
}

// Dashboard is everything the page renders for one selection.
type Dashboard struct {
	Overview  Overview             `json:"overview"`
	Sentinel  string               `json:"sentinel"`
	Panels    []PanelView          `json:"panels"`
	Outcome   OutcomeResult        `json:"outcome"`
	Groups    []string             `json:"groups"`
	Group     GroupResult          `json:"group"`
	Legend    []render.LegendEntry `json:"legend"`
	Selection filter.Selection     `json:"-"`
}
