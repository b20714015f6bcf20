package api

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
)

const svgContentType = "image/svg+xml"

type chartsDeps interface {
	OutcomeChart(ctx context.Context, w io.Writer, sel filter.Selection) error
	VariableChart(ctx context.Context, w io.Writer, group, column string, kind insight.Kind, sel filter.Selection) error
}

// ChartsHandler serves charts as SVG documents.
type ChartsHandler struct {
	deps  chartsDeps
	query *queryParser
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps chartsDeps, q *queryParser) *ChartsHandler {
	return &ChartsHandler{deps: deps, query: q}
}

// HandleOutcomeChart handles GET /charts/outcome.svg requests.
func (h *ChartsHandler) HandleOutcomeChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.outcomeChart"
	sel, err := h.query.Parse(r.URL.Query())
	if err != nil {
		writeFailure(w, err)
		return
	}
	h.serve(w, op, func(buf io.Writer) error {
		return h.deps.OutcomeChart(r.Context(), buf, sel)
	})
}

// HandleVariableChart handles GET /charts/{group}/{column}/{kind}.svg requests.
func (h *ChartsHandler) HandleVariableChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.variableChart"
	kind, err := service.ParseChartKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	sel, err := h.query.Parse(r.URL.Query())
	if err != nil {
		writeFailure(w, err)
		return
	}
	group := pathParam(chi.URLParam(r, "group"))
	column := pathParam(chi.URLParam(r, "column"))
	h.serve(w, op, func(buf io.Writer) error {
		return h.deps.VariableChart(r.Context(), buf, group, column, kind, sel)
	})
}

// serve renders into a buffer so failures still produce a JSON error.
func (h *ChartsHandler) serve(w http.ResponseWriter, op string, draw func(io.Writer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", svgContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
