package filter

import "strings"

// DefaultSentinel is the dropdown value meaning "no constraint".
const DefaultSentinel = "Todos"

// Builder collects widget values into a Selection, dropping sentinel picks.
type Builder struct {
	sentinel string
	cs       []Constraint
}

// NewBuilder creates a Builder; an empty sentinel falls back to DefaultSentinel.
func NewBuilder(sentinel string) *Builder {
	if strings.TrimSpace(sentinel) == "" {
		sentinel = DefaultSentinel
	}
	return &Builder{sentinel: sentinel}
}

// Sentinel returns the "no constraint" value used by this builder.
func (b *Builder) Sentinel() string { return b.sentinel }

// Equal constrains column to value unless value is empty or the sentinel.
func (b *Builder) Equal(column, value string) *Builder {
	if value == "" || value == b.sentinel {
		return b
	}
	b.cs = append(b.cs, Equal{Col: column, Value: value})
	return b
}

// Range constrains column to [lo, hi]; reversed bounds are swapped.
func (b *Builder) Range(column string, lo, hi float64) *Builder {
	if lo > hi {
		lo, hi = hi, lo
	}
	b.cs = append(b.cs, Range{Col: column, Min: lo, Max: hi})
	return b
}

// Build returns the immutable Selection.
func (b *Builder) Build() Selection {
	return New(b.cs...)
}
