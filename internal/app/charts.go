package service

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/acadash/internal/adapters/render"
	"github.com/okian/acadash/internal/domain/aggregate"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/internal/domain/insight"
)

// OutcomeChartTitle heads the main chart.
const OutcomeChartTitle = "Distribuição de formação acadêmica com filtros aplicados"

// ParseChartKind accepts "distribution" or "outcome".
func ParseChartKind(s string) (insight.Kind, error) {
	switch k := insight.Kind(s); k {
	case insight.Distribution, insight.Outcome:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
	}
}

// OutcomeChart writes the outcome distribution of the records matching sel
// as SVG.
func (s *Service) OutcomeChart(ctx context.Context, w io.Writer, sel filter.Selection) error {
	res, err := s.OutcomeCounts(ctx, sel)
	if err != nil {
		return err
	}
	return s.renderer.Bar(w, render.BarSpec{Title: OutcomeChartTitle, Bars: bars(res.Buckets)})
}

// VariableChart writes one chart of a group column as SVG.
func (s *Service) VariableChart(ctx context.Context, w io.Writer, group, column string, kind insight.Kind, sel filter.Selection) error {
	v, err := s.Variable(ctx, group, column, sel)
	if err != nil {
		return err
	}
	horizontal := v.Orientation == catalog.Horizontal
	switch kind {
	case insight.Distribution:
		return s.renderer.Bar(w, render.BarSpec{
			Title:      "Distribuição de " + column,
			Bars:       bars(v.Distribution),
			Horizontal: horizontal,
		})
	case insight.Outcome:
		legend, err := s.OutcomeLegend(ctx)
		if err != nil {
			return err
		}
		labels := make([]string, len(legend))
		for i, e := range legend {
			labels[i] = e.Label
		}
		return s.renderer.Stacked(w, render.StackedSpec{
			Title:      fmt.Sprintf("Distribuição de %s com %s", column, s.catalog.Outcome),
			Stacks:     stacks(v.Cross),
			Horizontal: horizontal,
		}, labels)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

func bars(buckets []aggregate.Bucket) []render.Bar {
	out := make([]render.Bar, len(buckets))
	for i, b := range buckets {
		out[i] = render.Bar{Label: b.Value, Value: float64(b.Count)}
	}
	return out
}

// stacks groups cross buckets by value, keeping the ascending order in which
// values first appear.
func stacks(cross []aggregate.CrossBucket) []render.Stack {
	index := make(map[string]int)
	out := make([]render.Stack, 0)
	for _, b := range cross {
		i, ok := index[b.Value]
		if !ok {
			i = len(out)
			index[b.Value] = i
			out = append(out, render.Stack{Label: b.Value})
		}
		out[i].Segments = append(out[i].Segments, render.Segment{Label: b.Outcome, Value: float64(b.Count)})
	}
	return out
}
