// Package dataset holds the immutable in-memory table of academic records.
package dataset

import "strings"

// Kind classifies a column.
type Kind int

// Column kinds.
const (
	Categorical Kind = iota
	Numeric
)

var kindNames = map[Kind]string{
	Categorical: "categorical",
	Numeric:     "numeric",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText renders the kind by name so JSON payloads stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a kind name back to its value.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return k, true
		}
	}
	return Categorical, false
}

// Column describes one named field of the schema.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Schema is the ordered, fixed set of columns of a dataset.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema. Duplicate names keep their first position.
func NewSchema(cols ...Column) Schema {
	s := Schema{
		columns: make([]Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if _, dup := s.index[c.Name]; dup {
			continue
		}
		s.index[c.Name] = len(s.columns)
		s.columns = append(s.columns, c)
	}
	return s
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the columns in order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Lookup finds a column by exact name.
func (s Schema) Lookup(name string) (Column, int, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, -1, false
	}
	return s.columns[i], i, true
}

// Has reports whether the schema has the named column.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}
