package service

import (
	"github.com/okian/acadash/internal/adapters/render"
	"github.com/okian/acadash/internal/config"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/collapse"
)

// ConfigOptions translates process configuration into service options.
func ConfigOptions(cfg *config.Config) []Option {
	registry := collapse.NewRegistry(
		collapse.WithFallback(collapse.NewThreshold(cfg.RareThreshold, cfg.CatchAllLabel)),
		collapse.WithAllowLists(cfg.CatchAllLabel, cfg.AllowList),
	)
	return []Option{
		WithDataset(cfg.DatasetPath, cfg.DatasetSheet),
		WithCatalog(catalog.Default().WithOutcome(cfg.OutcomeColumn)),
		WithRegistry(registry),
		WithSentinel(cfg.AllSentinel),
		WithGroupChartsFiltered(cfg.GroupChartsFiltered),
		WithRenderer(render.New(render.WithSize(cfg.ChartWidth, cfg.ChartHeight))),
	}
}
