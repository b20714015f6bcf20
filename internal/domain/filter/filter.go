// Package filter implements the record filter engine: an immutable Selection
// of per-column constraints applied as a logical AND over a dataset.
package filter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/acadash/internal/domain/dataset"
)

// Constraint restricts the records of one column.
type Constraint interface {
	fmt.Stringer
	// Column is the name of the constrained column.
	Column() string
	// Active reports whether the constraint restricts ds at all. A constraint
	// on a column ds does not have, or a range covering the column's full
	// extent, is inactive.
	Active(ds *dataset.Dataset) bool
	// Matches reports whether record i of ds satisfies the constraint.
	Matches(ds *dataset.Dataset, i int) bool
}

// Equal keeps records whose column text equals Value exactly.
type Equal struct {
	Col   string
	Value string
}

func (e Equal) Column() string { return e.Col }

func (e Equal) Active(ds *dataset.Dataset) bool {
	return ds.Schema().Has(e.Col)
}

func (e Equal) Matches(ds *dataset.Dataset, i int) bool {
	return ds.Text(i, e.Col) == e.Value
}

func (e Equal) String() string { return e.Col + "=" + e.Value }

// Range keeps records whose column parses to a number within [Min, Max].
type Range struct {
	Col string
	Min float64
	Max float64
}

func (r Range) Column() string { return r.Col }

func (r Range) Active(ds *dataset.Dataset) bool {
	if !ds.Schema().Has(r.Col) {
		return false
	}
	lo, hi, ok := ds.Extent(r.Col)
	if !ok {
		return true
	}
	return r.Min > lo || r.Max < hi
}

func (r Range) Matches(ds *dataset.Dataset, i int) bool {
	n, ok := ds.Number(i, r.Col)
	return ok && n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	return r.Col + "=[" + formatNumber(r.Min) + "," + formatNumber(r.Max) + "]"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Selection is an immutable set of constraints, at most one per column.
type Selection struct {
	constraints []Constraint
}

// New builds a Selection. A later constraint on a column replaces an earlier one.
func New(cs ...Constraint) Selection {
	byColumn := make(map[string]Constraint, len(cs))
	for _, c := range cs {
		if c == nil {
			continue
		}
		byColumn[c.Column()] = c
	}
	out := make([]Constraint, 0, len(byColumn))
	for _, c := range byColumn {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Column() < out[j].Column() })
	return Selection{constraints: out}
}

// With returns a copy of s with c added or replacing the constraint on its column.
func (s Selection) With(c Constraint) Selection {
	return New(append(s.Constraints(), c)...)
}

// Constraints returns the constraints ordered by column name.
func (s Selection) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// Get returns the constraint on column, if any.
func (s Selection) Get(column string) (Constraint, bool) {
	for _, c := range s.constraints {
		if c.Column() == column {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of constraints.
func (s Selection) Len() int { return len(s.constraints) }

// Active returns the constraints that restrict ds.
func (s Selection) Active(ds *dataset.Dataset) []Constraint {
	out := make([]Constraint, 0, len(s.constraints))
	for _, c := range s.constraints {
		if c.Active(ds) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether record i of ds satisfies every active constraint.
func (s Selection) Matches(ds *dataset.Dataset, i int) bool {
	return matchesAll(s.Active(ds), ds, i)
}

// Apply returns a new dataset holding the records of ds that satisfy every
// active constraint. An empty result is valid.
func (s Selection) Apply(ds *dataset.Dataset) *dataset.Dataset {
	if ds == nil {
		return nil
	}
	active := s.Active(ds)
	n := ds.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if matchesAll(active, ds, i) {
			indices = append(indices, i)
		}
	}
	return ds.Select(indices)
}

func matchesAll(cs []Constraint, ds *dataset.Dataset, i int) bool {
	for _, c := range cs {
		if !c.Matches(ds, i) {
			return false
		}
	}
	return true
}

// String renders the selection deterministically, e.g. "Bolsista=Sim;Idade=[18,25]".
func (s Selection) String() string {
	parts := make([]string, len(s.constraints))
	for i, c := range s.constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// Describe returns a JSON friendly view of the selection keyed by column.
// Open range bounds are left out.
func (s Selection) Describe() map[string]any {
	out := make(map[string]any, len(s.constraints))
	for _, c := range s.constraints {
		switch v := c.(type) {
		case Equal:
			out[v.Col] = map[string]any{"equals": v.Value}
		case Range:
			bounds := make(map[string]any, 2)
			if !math.IsInf(v.Min, 0) {
				bounds["min"] = v.Min
			}
			if !math.IsInf(v.Max, 0) {
				bounds["max"] = v.Max
			}
			out[v.Col] = bounds
		default:
			out[c.Column()] = c.String()
		}
	}
	return out
}
