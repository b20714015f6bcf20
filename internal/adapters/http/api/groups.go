package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
)

type groupsDeps interface {
	Catalog() *catalog.Catalog
	Group(ctx context.Context, name string, sel filter.Selection) (service.GroupResult, error)
}

// GroupsHandler serves the chart groups.
type GroupsHandler struct {
	deps  groupsDeps
	query *queryParser
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps groupsDeps, q *queryParser) *GroupsHandler {
	return &GroupsHandler{deps: deps, query: q}
}

type groupsResponse struct {
	Groups  []catalog.Group `json:"groups"`
	Default string          `json:"default"`
}

// HandleListGroups handles GET /api/groups requests.
func (h *GroupsHandler) HandleListGroups(w http.ResponseWriter, _ *http.Request) {
	c := h.deps.Catalog()
	names := c.GroupNames()
	out := groupsResponse{Groups: make([]catalog.Group, 0, len(names)), Default: c.DefaultGroup()}
	for _, name := range names {
		if g, ok := c.Group(name); ok {
			out.Groups = append(out.Groups, g)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetGroup handles GET /api/groups/{group} requests.
func (h *GroupsHandler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.group"
	sel, err := h.query.Parse(r.URL.Query())
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Group(r.Context(), pathParam(chi.URLParam(r, "group")), sel)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
