// Package config defines service configuration and its loading.
package config

import (
	"time"

	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/collapse"
	"github.com/okian/acadash/internal/domain/filter"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DatasetPath points at the CSV or XLSX records file.
	DatasetPath string `koanf:"dataset_path" validate:"required"`

	// DatasetSheet selects the XLSX worksheet; empty means the first one.
	DatasetSheet string `koanf:"dataset_sheet"`

	// OutcomeColumn is the target variable used for cross-tabulation.
	OutcomeColumn string `koanf:"outcome_column" validate:"required"`

	// AllSentinel is the dropdown value meaning "no constraint".
	AllSentinel string `koanf:"all_sentinel" validate:"required"`

	// CatchAllLabel replaces collapsed categories.
	CatchAllLabel string `koanf:"catch_all_label" validate:"required"`

	// RareThreshold collapses values occurring fewer times than this.
	RareThreshold int `koanf:"rare_threshold" validate:"gte=1"`

	// AllowList restricts specific columns to the listed values.
	AllowList map[string][]string `koanf:"allow_list" validate:"dive,keys,required,endkeys,min=1"`

	// GroupChartsFiltered makes group charts follow the sidebar filters.
	GroupChartsFiltered bool `koanf:"group_charts_filtered"`

	// ChartWidth and ChartHeight size rendered SVG charts in pixels.
	ChartWidth  int `koanf:"chart_width" validate:"gte=100,lte=4096"`
	ChartHeight int `koanf:"chart_height" validate:"gte=100,lte=4096"`

	// ReadTimeoutMS and WriteTimeoutMS bound HTTP request handling.
	ReadTimeoutMS  int `koanf:"read_timeout_ms" validate:"gt=0"`
	WriteTimeoutMS int `koanf:"write_timeout_ms" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		DatasetPath:   "pisi3_database/dataset_traduzido.parquet",
		OutcomeColumn: catalog.Target,
		AllSentinel:   filter.DefaultSentinel,
		CatchAllLabel: collapse.DefaultCatchAll,
		RareThreshold: collapse.DefaultThreshold,
		AllowList: map[string][]string{
			catalog.SpecialEducationNeed: {"Sim", "Não"},
		},
		ChartWidth:     640,
		ChartHeight:    400,
		ReadTimeoutMS:  5_000,
		WriteTimeoutMS: 15_000,
	}
}

// ReadTimeout returns ReadTimeoutMS as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}
