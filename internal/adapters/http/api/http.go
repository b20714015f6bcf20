// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
	"github.com/okian/acadash/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Catalog() *catalog.Catalog
	NewBuilder() *filter.Builder

	Columns(ctx context.Context) ([]service.PanelView, error)
	OutcomeCounts(ctx context.Context, sel filter.Selection) (service.OutcomeResult, error)
	Group(ctx context.Context, name string, sel filter.Selection) (service.GroupResult, error)
	Dashboard(ctx context.Context, sel filter.Selection, group string) (service.Dashboard, error)

	OutcomeChart(ctx context.Context, w io.Writer, sel filter.Selection) error
	VariableChart(ctx context.Context, w io.Writer, group, column string, kind insight.Kind, sel filter.Selection) error
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	columnsHandler   *ColumnsHandler
	outcomeHandler   *OutcomeHandler
	groupsHandler    *GroupsHandler
	chartsHandler    *ChartsHandler
	dashboardHandler *DashboardHandler
	logger           logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, l logger.Logger) *Server {
	if l == nil {
		l = logger.NewNop()
	}
	q := newQueryParser(deps)
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		columnsHandler:   NewColumnsHandler(deps),
		outcomeHandler:   NewOutcomeHandler(deps, q),
		groupsHandler:    NewGroupsHandler(deps, q),
		chartsHandler:    NewChartsHandler(deps, q),
		dashboardHandler: NewDashboardHandler(deps, q, l),
		logger:           l,
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/columns", MetricsMiddleware(s.columnsHandler.HandleColumns, "columns"))
		r.Get("/outcome", MetricsMiddleware(s.outcomeHandler.HandleOutcome, "outcome"))
		r.Get("/groups", MetricsMiddleware(s.groupsHandler.HandleListGroups, "groups"))
		r.Get("/groups/{group}", MetricsMiddleware(s.groupsHandler.HandleGetGroup, "group"))
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/outcome.svg", MetricsMiddleware(s.chartsHandler.HandleOutcomeChart, "chart_outcome"))
		r.Get("/{group}/{column}/{kind}.svg", MetricsMiddleware(s.chartsHandler.HandleVariableChart, "chart_variable"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// encodeFailureBody is sent when a payload cannot be encoded.
const encodeFailureBody = `{"code":"internal","message":"encode response failed"}` + "\n"

// writeJSON encodes v before the status is written so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	body, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, encodeFailureBody)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to its status and writes the JSON error body.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
