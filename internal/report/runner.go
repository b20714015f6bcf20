package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	service "github.com/okian/acadash/internal/app"
	"github.com/okian/acadash/internal/config"
	"github.com/okian/acadash/internal/domain/filter"
	"github.com/okian/acadash/pkg/logger"
)

// Report is everything the tool prints.
type Report struct {
	Overview service.Overview      `json:"overview"`
	Filters  string                `json:"selection"`
	Outcome  service.OutcomeResult `json:"outcome"`
	Group    service.GroupResult   `json:"group"`
}

// Run loads the dataset named by opts (or by base), evaluates the selection
// and writes the report to w.
func Run(ctx context.Context, base *config.Config, opts *Config, l logger.Logger, w io.Writer) error {
	cfg := *base
	if opts.DataPath != "" {
		cfg.DatasetPath = opts.DataPath
		cfg.DatasetSheet = opts.Sheet
	}
	if opts.GroupsFiltered {
		cfg.GroupChartsFiltered = true
	}

	svc := service.New(append(service.ConfigOptions(&cfg), service.WithLogger(l))...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	sel, err := Selection(svc.NewBuilder(), opts.Filters, opts.Ranges)
	if err != nil {
		return err
	}
	if err := checkColumns(ctx, svc, opts.Filters, opts.Ranges); err != nil {
		return err
	}
	rep, err := build(ctx, svc, sel, opts.Group)
	if err != nil {
		return err
	}
	if opts.JSON {
		return WriteJSON(w, rep)
	}
	return WriteText(w, rep)
}

func build(ctx context.Context, svc *service.Service, sel filter.Selection, group string) (Report, error) {
	d, err := svc.Dashboard(ctx, sel, group)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Overview: d.Overview,
		Filters:  sel.String(),
		Outcome:  d.Outcome,
		Group:    d.Group,
	}, nil
}

// Selection parses "Column=Value" filters and "Column=lo:hi" ranges.
func Selection(b *filter.Builder, filters, ranges []string) (filter.Selection, error) {
	for _, f := range filters {
		col, val, ok := strings.Cut(f, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return filter.Selection{}, fmt.Errorf("%w: %q: want Column=Value", ErrBadFilter, f)
		}
		b.Equal(col, strings.TrimSpace(val))
	}
	for _, r := range ranges {
		col, bounds, ok := strings.Cut(r, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return filter.Selection{}, fmt.Errorf("%w: %q: want Column=lo:hi", ErrBadFilter, r)
		}
		loS, hiS, ok := strings.Cut(bounds, ":")
		if !ok {
			return filter.Selection{}, fmt.Errorf("%w: %q: want Column=lo:hi", ErrBadFilter, r)
		}
		lo, err := bound(loS, math.Inf(-1))
		if err != nil {
			return filter.Selection{}, fmt.Errorf("%w: %q: %w", ErrBadFilter, r, err)
		}
		hi, err := bound(hiS, math.Inf(1))
		if err != nil {
			return filter.Selection{}, fmt.Errorf("%w: %q: %w", ErrBadFilter, r, err)
		}
		b.Range(col, lo, hi)
	}
	return b.Build(), nil
}

// checkColumns rejects expressions naming a column the dataset lacks, so a
// typo does not silently print an unfiltered report.
func checkColumns(ctx context.Context, svc *service.Service, exprs ...[]string) error {
	for _, list := range exprs {
		for _, e := range list {
			col, _, _ := strings.Cut(e, "=")
			col = strings.TrimSpace(col)
			ok, err := svc.HasColumn(ctx, col)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %q: unknown column %q", ErrBadFilter, e, col)
			}
		}
	}
	return nil
}

func bound(raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}
