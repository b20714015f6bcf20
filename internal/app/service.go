// Package service runs the dashboard pipeline: it loads the records file,
// filters it with a selection, collapses rare categories and aggregates
// counts for the HTTP API and the report command.
package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/acadash/internal/adapters/render"
	"github.com/okian/acadash/internal/adapters/repository"
	"github.com/okian/acadash/internal/adapters/source"
	"github.com/okian/acadash/internal/domain/aggregate"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/collapse"
	"github.com/okian/acadash/internal/domain/dataset"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
	"github.com/okian/acadash/pkg/logger"
	"github.com/okian/acadash/pkg/metrics"
)

const tracerName = "github.com/okian/acadash/internal/app"

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	loader   repository.Loader
	catalog  *catalog.Catalog
	book     *insight.Book
	registry *collapse.Registry
	renderer *render.Renderer
	tracer   trace.Tracer

	datasetPath   string
	datasetSheet  string
	sentinel      string
	groupFiltered bool

	started bool
	logger  logger.Logger
}

// New constructs a Service with the default catalog, commentary and
// collapse policies.
func New(opts ...Option) *Service {
	s := &Service{
		store:    repository.NewSnapshotStore(),
		catalog:  catalog.Default(),
		book:     insight.Default(),
		registry: collapse.NewRegistry(collapse.WithAllowLists(collapse.DefaultCatchAll, map[string][]string{catalog.SpecialEducationNeed: {"Sim", "Não"}})),
		renderer: render.New(),
		tracer:   otel.Tracer(tracerName),
		sentinel: filter.DefaultSentinel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset. Calling it again on a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting dashboard service...", logger.String("dataset", s.datasetPath))

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("datasetId", snap.Dataset.ID()),
		logger.Int("rows", snap.Dataset.Len()),
		logger.Int("columns", snap.Dataset.Schema().Len()),
		logger.Duration("took", snap.Took),
		logger.Bool("groupChartsFiltered", s.groupFiltered),
	)
	s.warnMissingColumns(ctx, snap.Dataset)
	return nil
}

// Reload reads the dataset again and publishes it. Requests in flight keep
// the snapshot they started with.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		s.logger = logger.Get()
	}
	snap, err := s.load(ctx)
	if err != nil {
		s.logger.Error(ctx, "dataset reload failed", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "dataset reloaded",
		logger.String("datasetId", snap.Dataset.ID()),
		logger.Int("rows", snap.Dataset.Len()),
		logger.Any("version", snap.Version),
	)
	return nil
}

func (s *Service) load(ctx context.Context) (*repository.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "Service.Load", attribute.String("dataset.path", s.datasetPath))
	l := s.loader
	if l == nil {
		src, err := source.Open(s.datasetPath,
			source.WithSheet(s.datasetSheet),
			source.WithKindHint(s.catalog.Kind),
		)
		if err != nil {
			endSpan(span, err)
			return nil, fmt.Errorf("%w: %w", ErrStart, err)
		}
		l = src
	}
	snap, err := s.store.Load(ctx, l)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		endSpan(span, err)
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}
	span.SetAttributes(attribute.Int("dataset.rows", snap.Dataset.Len()))
	endSpan(span, nil)
	return snap, nil
}

func (s *Service) warnMissingColumns(ctx context.Context, ds *dataset.Dataset) {
	for _, f := range s.catalog.Filters() {
		if !ds.Schema().Has(f.Column) {
			s.logger.Warn(ctx, "filter column missing from dataset", logger.String("column", f.Column))
		}
	}
	if !ds.Schema().Has(s.catalog.Outcome) {
		s.logger.Warn(ctx, "outcome column missing from dataset", logger.String("column", s.catalog.Outcome))
	}
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Catalog returns the dashboard layout.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// NewBuilder returns a selection builder using the configured sentinel.
func (s *Service) NewBuilder() *filter.Builder { return filter.NewBuilder(s.sentinel) }

func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Overview describes the loaded dataset.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return Overview{}, err
	}
	return overviewOf(snap), nil
}

// HasColumn reports whether the loaded dataset has the named column.
func (s *Service) HasColumn(ctx context.Context, column string) (bool, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.Dataset.Schema().Has(column), nil
}

func overviewOf(snap *repository.Snapshot) Overview {
	return Overview{
		DatasetID: snap.Dataset.ID(),
		Source:    snap.Source,
		Version:   snap.Version,
		LoadedAt:  snap.LoadedAt,
		Rows:      snap.Dataset.Len(),
		Columns:   snap.Dataset.Schema().Len(),
	}
}

// Columns lists the filter widgets with the options offered by the dataset.
// Dropdowns start with the sentinel followed by the distinct values in
// first-appearance order; sliders span the column's whole-number extent.
func (s *Service) Columns(ctx context.Context) ([]PanelView, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.columns(snap.Dataset), nil
}

func (s *Service) columns(ds *dataset.Dataset) []PanelView {
	panels := make([]PanelView, 0, len(s.catalog.Panels))
	for _, p := range s.catalog.Panels {
		view := PanelView{Title: p.Title, Expanded: p.Expanded, Widgets: make([]Widget, 0, len(p.Filters))}
		for _, f := range p.Filters {
			view.Widgets = append(view.Widgets, s.widget(ds, f))
		}
		panels = append(panels, view)
	}
	return panels
}

func (s *Service) widget(ds *dataset.Dataset, f catalog.Filter) Widget {
	w := Widget{Column: f.Column, Widget: f.Widget, Present: ds.Schema().Has(f.Column)}
	if !w.Present {
		return w
	}
	switch f.Widget {
	case catalog.Slider:
		if lo, hi, ok := ds.Extent(f.Column); ok {
			w.Min, w.Max = math.Floor(lo), math.Ceil(hi)
		}
		if sum, ok := ds.Summarize(f.Column); ok {
			w.Summary = &sum
		}
	default:
		w.Options = append(w.Options, s.sentinel)
		for _, v := range ds.Unique(f.Column) {
			if v != "" && v != s.sentinel {
				w.Options = append(w.Options, v)
			}
		}
	}
	return w
}

// Filter returns the records of the current dataset matching sel.
func (s *Service) Filter(ctx context.Context, sel filter.Selection) (*dataset.Dataset, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.filter(ctx, snap.Dataset, sel), nil
}

func (s *Service) filter(ctx context.Context, ds *dataset.Dataset, sel filter.Selection) *dataset.Dataset {
	_, span := s.startSpan(ctx, "Service.Filter", attribute.String("filter.selection", sel.String()))
	defer span.End()

	start := time.Now()
	out := sel.Apply(ds)
	active := len(sel.Active(ds))
	metrics.RecordFilter(out.Len(), active, time.Since(start))
	span.SetAttributes(
		attribute.Int("filter.active", active),
		attribute.Int("filter.matched", out.Len()),
	)
	return out
}

// OutcomeCounts counts the outcome values of the records matching sel.
func (s *Service) OutcomeCounts(ctx context.Context, sel filter.Selection) (OutcomeResult, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return OutcomeResult{}, err
	}
	return s.outcome(s.filter(ctx, snap.Dataset, sel), sel), nil
}

func (s *Service) outcome(filtered *dataset.Dataset, sel filter.Selection) OutcomeResult {
	metrics.RecordAggregation("outcome")
	return OutcomeResult{
		Column:  s.catalog.Outcome,
		Rows:    filtered.Len(),
		Filters: sel.Describe(),
		Buckets: aggregate.Count(present(filtered.Values(s.catalog.Outcome))),
	}
}

// Group computes the distribution and outcome cross-tab of every column of
// the named group. Unless group charts follow the filters, the full dataset
// is used.
func (s *Service) Group(ctx context.Context, name string, sel filter.Selection) (GroupResult, error) {
	g, ok := s.catalog.Group(name)
	if !ok {
		return GroupResult{}, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return GroupResult{}, err
	}
	return s.group(ctx, snap.Dataset, g, sel), nil
}

func (s *Service) group(ctx context.Context, ds *dataset.Dataset, g catalog.Group, sel filter.Selection) GroupResult {
	ctx, span := s.startSpan(ctx, "Service.Group", attribute.String("group.name", g.Name))
	defer span.End()

	base := ds
	if s.groupFiltered {
		base = s.filter(ctx, ds, sel)
	}
	res := GroupResult{Name: g.Name, Filtered: s.groupFiltered, Rows: base.Len(), Variables: make([]VariableView, 0, len(g.Columns))}
	for _, col := range g.Columns {
		res.Variables = append(res.Variables, s.variable(ctx, base, col))
	}
	return res
}

// Variable computes the charts of one column of a group.
func (s *Service) Variable(ctx context.Context, group, column string, sel filter.Selection) (VariableView, error) {
	g, ok := s.catalog.Group(group)
	if !ok {
		return VariableView{}, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	if !slices.Contains(g.Columns, column) {
		return VariableView{}, fmt.Errorf("%w: %q in group %q", ErrUnknownColumn, column, group)
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return VariableView{}, err
	}
	base := snap.Dataset
	if s.groupFiltered {
		base = s.filter(ctx, base, sel)
	}
	return s.variable(ctx, base, column), nil
}

func (s *Service) variable(ctx context.Context, ds *dataset.Dataset, column string) VariableView {
	policy := s.registry.For(column)
	v := VariableView{
		Column:      column,
		Present:     ds.Schema().Has(column),
		Orientation: s.catalog.Orientation(column),
		Policy:      policy.Name(),
	}

	v.Distribution = aggregate.Count(policy.Apply(present(ds.Values(column))))
	values, outcomes := presentPairs(ds.Values(column), ds.Values(s.catalog.Outcome))
	v.Cross = aggregate.CrossCount(policy.Apply(values), outcomes)
	v.Outcomes = aggregate.Outcomes(v.Cross)
	metrics.RecordCollapse(policy.Name())
	metrics.RecordAggregation("distribution")
	metrics.RecordAggregation("cross")

	data := insight.Data{Column: column, Rows: ds.Len()}
	for _, kind := range []insight.Kind{insight.Distribution, insight.Outcome} {
		html, err := s.book.HTML(column, kind, data)
		if err != nil {
			s.log().Warn(ctx, "commentary render failed", logger.String("column", column), logger.Error(err))
			continue
		}
		if html == "" {
			continue
		}
		if v.Commentary == nil {
			v.Commentary = make(map[insight.Kind]string, 2)
		}
		v.Commentary[kind] = html
	}
	return v
}

// OutcomeLegend lists the outcome values of the full dataset in
// first-appearance order with their chart colors.
func (s *Service) OutcomeLegend(ctx context.Context) ([]render.LegendEntry, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.legend(snap.Dataset), nil
}

func (s *Service) legend(ds *dataset.Dataset) []render.LegendEntry {
	return s.renderer.Legend(present(ds.Unique(s.catalog.Outcome)))
}

// Dashboard assembles the whole page for sel and the named group. An empty
// group name selects the first group.
func (s *Service) Dashboard(ctx context.Context, sel filter.Selection, group string) (Dashboard, error) {
	ctx, span := s.startSpan(ctx, "Service.Dashboard", attribute.String("group.name", group))
	if group == "" {
		group = s.catalog.DefaultGroup()
	}
	g, ok := s.catalog.Group(group)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownGroup, group)
		endSpan(span, err)
		return Dashboard{}, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		endSpan(span, err)
		return Dashboard{}, err
	}
	ds := snap.Dataset
	d := Dashboard{
		Overview:  overviewOf(snap),
		Sentinel:  s.sentinel,
		Panels:    s.columns(ds),
		Outcome:   s.outcome(s.filter(ctx, ds, sel), sel),
		Groups:    s.catalog.GroupNames(),
		Group:     s.group(ctx, ds, g, sel),
		Legend:    s.legend(ds),
		Selection: sel,
	}
	endSpan(span, nil)
	return d, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":             s.started,
		"sentinel":            s.sentinel,
		"outcomeColumn":       s.catalog.Outcome,
		"groupChartsFiltered": s.groupFiltered,
		"collapseOverrides":   s.registry.Overrides(),
		"groups":              s.catalog.GroupNames(),
	}
	if snap, err := s.store.Snapshot(ctx); err == nil {
		o := overviewOf(snap)
		stats["datasetId"] = o.DatasetID
		stats["source"] = o.Source
		stats["version"] = o.Version
		stats["loadedAt"] = o.LoadedAt
		stats["columns"] = o.Columns
	}
	stats["rows"] = s.store.Count(ctx)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.NewNop()
	}
	return s.logger
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// present drops empty cells, which stand for missing values.
func present(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// presentPairs keeps the positions where both values are present.
func presentPairs(a, b []string) ([]string, []string) {
	n := min(len(a), len(b))
	outA := make([]string, 0, n)
	outB := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if a[i] == "" || b[i] == "" {
			continue
		}
		outA = append(outA, a[i])
		outB = append(outB, b[i])
	}
	return outA, outB
}
