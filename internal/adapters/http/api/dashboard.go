package api

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
	"github.com/okian/acadash/pkg/logger"
)

//go:embed templates/dashboard.html
var templatesFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templatesFS, "templates/dashboard.html"))

type dashboardDeps interface {
	Dashboard(ctx context.Context, sel filter.Selection, group string) (service.Dashboard, error)
}

// DashboardHandler renders the dashboard page.
type DashboardHandler struct {
	deps   dashboardDeps
	query  *queryParser
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps dashboardDeps, q *queryParser, l logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, query: q, logger: l}
}

type pageChart struct {
	Column          string
	Present         bool
	DistributionURL string
	OutcomeURL      string
	DistributionMD  template.HTML
	OutcomeMD       template.HTML
}

type pageWidget struct {
	service.Widget
	Slider   bool
	Selected string
	Lo, Hi   float64
}

type pagePanel struct {
	Title    string
	Expanded bool
	Widgets  []pageWidget
}

type pageView struct {
	service.Dashboard
	Panels          []pagePanel
	OutcomeChartURL string
	Charts          []pageChart
}

// HandleDashboard handles GET / requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	q := r.URL.Query()
	sel, err := h.query.Parse(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d, err := h.deps.Dashboard(r.Context(), sel, q.Get(groupParam))
	if err != nil {
		status, _ := classify(err)
		http.Error(w, Wrap(op, err).Error(), status)
		return
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, newPageView(d, q)); err != nil {
		h.logger.Error(r.Context(), "dashboard render failed", logger.Error(err))
		http.Error(w, WrapKind(op, ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func newPageView(d service.Dashboard, q url.Values) pageView {
	filters := url.Values{}
	for k, v := range q {
		if k != groupParam {
			filters[k] = v
		}
	}
	encoded := filters.Encode()

	view := pageView{
		Dashboard:       d,
		Panels:          make([]pagePanel, 0, len(d.Panels)),
		OutcomeChartURL: withQuery("/charts/outcome.svg", encoded),
		Charts:          make([]pageChart, 0, len(d.Group.Variables)),
	}
	for _, p := range d.Panels {
		pp := pagePanel{Title: p.Title, Expanded: p.Expanded, Widgets: make([]pageWidget, 0, len(p.Widgets))}
		for _, wd := range p.Widgets {
			pp.Widgets = append(pp.Widgets, widgetState(wd, d.Selection, d.Sentinel))
		}
		view.Panels = append(view.Panels, pp)
	}
	base := "/charts/" + url.PathEscape(d.Group.Name) + "/"
	for _, v := range d.Group.Variables {
		col := base + url.PathEscape(v.Column) + "/"
		view.Charts = append(view.Charts, pageChart{
			Column:          v.Column,
			Present:         v.Present,
			DistributionURL: withQuery(col+string(insight.Distribution)+".svg", encoded),
			OutcomeURL:      withQuery(col+string(insight.Outcome)+".svg", encoded),
			DistributionMD:  template.HTML(v.Commentary[insight.Distribution]), //nolint:gosec // markdown is rendered with raw HTML skipped
			OutcomeMD:       template.HTML(v.Commentary[insight.Outcome]),      //nolint:gosec // markdown is rendered with raw HTML skipped
		})
	}
	return view
}

func widgetState(w service.Widget, sel filter.Selection, sentinel string) pageWidget {
	pw := pageWidget{Widget: w, Slider: w.Widget == catalog.Slider, Selected: sentinel, Lo: w.Min, Hi: w.Max}
	c, ok := sel.Get(w.Column)
	if !ok {
		return pw
	}
	switch v := c.(type) {
	case filter.Equal:
		pw.Selected = v.Value
	case filter.Range:
		if v.Min > w.Min {
			pw.Lo = v.Min
		}
		if v.Max < w.Max {
			pw.Hi = v.Max
		}
	}
	return pw
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
