package api

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/acadash/internal/domain/catalog"
	"github.com/okian/acadash/internal/domain/filter"
)

// Query keys outside the filter columns.
const (
	groupParam = "group"
	minSuffix  = ".min"
	maxSuffix  = ".max"
)

type selectionSource interface {
	Catalog() *catalog.Catalog
	NewBuilder() *filter.Builder
}

// queryParser turns widget query parameters into a Selection. Dropdowns are
// read from "<column>=<value>" and sliders from "<column>.min" and
// "<column>.max". Keys that name no filter column are ignored.
type queryParser struct {
	src selectionSource
}

func newQueryParser(src selectionSource) *queryParser {
	return &queryParser{src: src}
}

func (p *queryParser) Parse(q url.Values) (filter.Selection, error) {
	const op = "api.parseSelection"
	b := p.src.NewBuilder()
	for _, f := range p.src.Catalog().Filters() {
		switch f.Widget {
		case catalog.Slider:
			lo, hasLo, err := parseBound(q.Get(f.Column+minSuffix), math.Inf(-1))
			if err != nil {
				return filter.Selection{}, WrapKind(op, ErrBadRequest, fmt.Errorf("%s%s: %w", f.Column, minSuffix, err))
			}
			hi, hasHi, err := parseBound(q.Get(f.Column+maxSuffix), math.Inf(1))
			if err != nil {
				return filter.Selection{}, WrapKind(op, ErrBadRequest, fmt.Errorf("%s%s: %w", f.Column, maxSuffix, err))
			}
			if hasLo || hasHi {
				b.Range(f.Column, lo, hi)
			}
		default:
			b.Equal(f.Column, strings.TrimSpace(q.Get(f.Column)))
		}
	}
	return b.Build(), nil
}

// parseBound reads a slider bound; an empty value yields def.
func parseBound(raw string, def float64) (float64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, fmt.Errorf("not a number: %q", raw)
	}
	return v, true, nil
}

// pathParam decodes a chi URL parameter that may still be escaped.
func pathParam(raw string) string {
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
