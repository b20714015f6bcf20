package api

import (
	"context"
	"net/http"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/filter"
)

type outcomeDeps interface {
	OutcomeCounts(ctx context.Context, sel filter.Selection) (service.OutcomeResult, error)
}

// OutcomeHandler serves the outcome distribution of the filtered records.
type OutcomeHandler struct {
	deps  outcomeDeps
	query *queryParser
}

// NewOutcomeHandler creates a new outcome handler.
func NewOutcomeHandler(deps outcomeDeps, q *queryParser) *OutcomeHandler {
	return &OutcomeHandler{deps: deps, query: q}
}

// HandleOutcome handles GET /api/outcome requests.
func (h *OutcomeHandler) HandleOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.outcome"
	sel, err := h.query.Parse(r.URL.Query())
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.OutcomeCounts(r.Context(), sel)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
