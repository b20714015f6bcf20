package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Cell is one value of a record. Numeric columns keep both the raw text and
// the parsed number; Num is NaN when the text does not parse.
type Cell struct {
	Text  string
	Num   float64
	IsNum bool
}

// NewCell trims raw and parses it as a number when possible.
func NewCell(raw string) Cell {
	text := strings.TrimSpace(raw)
	c := Cell{Text: text, Num: math.NaN()}
	if text == "" {
		return c
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		c.Num = f
		c.IsNum = true
	}
	return c
}

// Record is an immutable row.
type Record struct {
	cells []Cell
}

// Cell returns the i-th cell, or an empty cell when out of range.
func (r Record) Cell(i int) Cell {
	if i < 0 || i >= len(r.cells) {
		return Cell{Num: math.NaN()}
	}
	return r.cells[i]
}

// Dataset is an immutable table. Filtering never mutates it; Select returns a
// new Dataset owning its own record slice.
type Dataset struct {
	id      string
	source  string
	schema  Schema
	records []Record
}

// New builds a dataset from raw rows laid out in schema order. Short rows
// are padded with empty cells, extra cells are dropped.
func New(source string, schema Schema, rows [][]string) *Dataset {
	width := schema.Len()
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				cells[i] = NewCell(row[i])
			} else {
				cells[i] = NewCell("")
			}
		}
		records = append(records, Record{cells: cells})
	}
	return &Dataset{
		id:      uuid.NewString(),
		source:  source,
		schema:  schema,
		records: records,
	}
}

// ID identifies the loaded snapshot. Views produced by Select keep the ID of
// the dataset they were derived from.
func (d *Dataset) ID() string {
	if d == nil {
		return ""
	}
	return d.id
}

// Source returns the path the dataset was loaded from.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Schema returns the dataset schema.
func (d *Dataset) Schema() Schema {
	if d == nil {
		return NewSchema()
	}
	return d.schema
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Text returns the text of column for record i; empty when the column is unknown.
func (d *Dataset) Text(i int, column string) string {
	_, idx, ok := d.Schema().Lookup(column)
	if !ok {
		return ""
	}
	return d.records[i].Cell(idx).Text
}

// Number returns the numeric value of column for record i.
func (d *Dataset) Number(i int, column string) (float64, bool) {
	_, idx, ok := d.Schema().Lookup(column)
	if !ok {
		return math.NaN(), false
	}
	c := d.records[i].Cell(idx)
	return c.Num, c.IsNum
}

// Values returns a copy of the text values of column. A missing column
// yields nil.
func (d *Dataset) Values(column string) []string {
	_, idx, ok := d.Schema().Lookup(column)
	if !ok {
		return nil
	}
	out := make([]string, len(d.records))
	for i, r := range d.records {
		out[i] = r.Cell(idx).Text
	}
	return out
}

// Unique returns the distinct values of column in first-appearance order.
func (d *Dataset) Unique(column string) []string {
	values := d.Values(column)
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Extent returns the smallest and largest parsed number of column.
func (d *Dataset) Extent(column string) (lo, hi float64, ok bool) {
	_, idx, found := d.Schema().Lookup(column)
	if !found {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range d.records {
		c := r.Cell(idx)
		if !c.IsNum {
			continue
		}
		ok = true
		lo = math.Min(lo, c.Num)
		hi = math.Max(hi, c.Num)
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Select returns a new dataset made of the records at indices, in order.
func (d *Dataset) Select(indices []int) *Dataset {
	records := make([]Record, 0, len(indices))
	for _, i := range indices {
		records = append(records, d.records[i])
	}
	return &Dataset{
		id:      d.ID(),
		source:  d.Source(),
		schema:  d.Schema(),
		records: records,
	}
}
