package service

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/acadash/internal/adapters/render"
	"github.com/okian/acadash/internal/adapters/repository"
	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/collapse"
	"github.com/okian/acadash/internal/domain/insight"
	"github.com/okian/acadash/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDataset sets the records file and, for workbooks, the sheet.
func WithDataset(path, sheet string) Option {
	return func(s *Service) {
		if path != "" {
			s.datasetPath = path
		}
		s.datasetSheet = sheet
	}
}

// WithLoader makes Start read through l instead of opening the dataset path.
func WithLoader(l repository.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithCatalog sets the dashboard layout.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithBook sets the chart commentary.
func WithBook(b *insight.Book) Option {
	return func(s *Service) {
		if b != nil {
			s.book = b
		}
	}
}

// WithRegistry sets the per-column collapse policies.
func WithRegistry(r *collapse.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithSentinel sets the dropdown value meaning "no constraint".
func WithSentinel(sentinel string) Option {
	return func(s *Service) {
		if sentinel != "" {
			s.sentinel = sentinel
		}
	}
}

// WithGroupChartsFiltered makes group charts follow the selection instead of
// the full dataset.
func WithGroupChartsFiltered(enabled bool) Option {
	return func(s *Service) {
		s.groupFiltered = enabled
	}
}

// WithRenderer sets the chart renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}
