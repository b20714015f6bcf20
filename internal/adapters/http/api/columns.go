package api

import (
	"context"
	"net/http"

	service "github.com/okian/acadash/internal/app"
)

type columnsDeps interface {
	Columns(ctx context.Context) ([]service.PanelView, error)
}

// ColumnsHandler lists the filter widgets with the values they offer.
type ColumnsHandler struct {
	deps columnsDeps
}

// NewColumnsHandler creates a new columns handler.
func NewColumnsHandler(deps columnsDeps) *ColumnsHandler {
	return &ColumnsHandler{deps: deps}
}

type columnsResponse struct {
	Panels []service.PanelView `json:"panels"`
}

// HandleColumns handles GET /api/columns requests.
func (h *ColumnsHandler) HandleColumns(w http.ResponseWriter, r *http.Request) {
	panels, err := h.deps.Columns(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.columns", err))
		return
	}
	writeJSON(w, http.StatusOK, columnsResponse{Panels: panels})
}
