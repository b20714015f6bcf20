// Package source loads the academic records file into an immutable dataset.
// CSV, XLSX and Parquet files are supported; the loader is picked by file
// extension.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/acadash/internal/domain/dataset"
)

// Source reads a dataset.
type Source interface {
	// Path is the file the source reads from.
	Path() string
	// Read loads the whole file.
	Read(ctx context.Context) (*dataset.Dataset, error)
}

// KindHint pins the kind of a column, overriding inference.
type KindHint func(column string) (dataset.Kind, bool)

type options struct {
	sheet string
	hint  KindHint
}

// Option configures a Source.
type Option func(*options)

// WithSheet selects the XLSX sheet; the first sheet is used when empty.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = strings.TrimSpace(name)
	}
}

// WithKindHint sets the function consulted before inferring column kinds.
func WithKindHint(h KindHint) Option {
	return func(o *options) {
		if h != nil {
			o.hint = h
		}
	}
}

// Open returns the Source for path based on its extension.
func Open(path string, opts ...Option) (Source, error) {
	o := options{hint: func(string) (dataset.Kind, bool) { return dataset.Categorical, false }}
	for _, opt := range opts {
		opt(&o)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		return &CSV{path: path, opts: o}, nil
	case ".xlsx", ".xlsm":
		return &XLSX{path: path, opts: o}, nil
	case ".parquet", ".parq":
		return &Parquet{path: path, opts: o}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// build turns a header and raw rows into a dataset.
func build(path string, header []string, rows [][]string, hint KindHint) (*dataset.Dataset, error) {
	names := normalizeHeader(header)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	cols := make([]dataset.Column, len(names))
	for i, name := range names {
		kind, ok := hint(name)
		if !ok {
			kind = inferKind(rows, i)
		}
		cols[i] = dataset.Column{Name: name, Kind: kind}
	}
	return dataset.New(path, dataset.NewSchema(cols...), rows), nil
}

// inferKind reports Numeric when every non-empty cell of column i parses as
// a number and at least one does.
func inferKind(rows [][]string, i int) dataset.Kind {
	seen := false
	for _, row := range rows {
		if i >= len(row) {
			continue
		}
		c := dataset.NewCell(row[i])
		if c.Text == "" {
			continue
		}
		if !c.IsNum {
			return dataset.Categorical
		}
		seen = true
	}
	if seen {
		return dataset.Numeric
	}
	return dataset.Categorical
}
