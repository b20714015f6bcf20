// Package insight holds the commentary shown under each chart, keyed by
// column name. Entries are markdown templates rendered to HTML.
package insight

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Kind selects which chart a commentary belongs to.
type Kind string

// Commentary kinds.
const (
	Distribution Kind = "distribution"
	Outcome      Kind = "outcome"
)

// Commentary is the pair of texts attached to one column.
type Commentary struct {
	Distribution string
	Outcome      string
}

// Data is the template input of a commentary.
type Data struct {
	Column string
	Rows   int
}

// Book maps column names to parsed commentary templates.
type Book struct {
	entries map[string]map[Kind]*template.Template
}

// NewBook parses every entry. A template that fails to parse is reported
// with its column and kind.
func NewBook(entries map[string]Commentary) (*Book, error) {
	b := &Book{entries: make(map[string]map[Kind]*template.Template, len(entries))}
	for column, c := range entries {
		parsed := make(map[Kind]*template.Template, 2)
		for kind, text := range map[Kind]string{Distribution: c.Distribution, Outcome: c.Outcome} {
			if text == "" {
				continue
			}
			t, err := template.New(column + "/" + string(kind)).Option("missingkey=zero").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %w", ErrTemplate, column, kind, err)
			}
			parsed[kind] = t
		}
		b.entries[column] = parsed
	}
	return b, nil
}

// Has reports whether column has commentary of kind.
func (b *Book) Has(column string, kind Kind) bool {
	_, ok := b.entries[column][kind]
	return ok
}

// Markdown executes the template of column/kind. A missing entry yields "".
func (b *Book) Markdown(column string, kind Kind, data Data) (string, error) {
	t, ok := b.entries[column][kind]
	if !ok {
		return "", nil
	}
	if data.Column == "" {
		data.Column = column
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s/%s: %w", ErrTemplate, column, kind, err)
	}
	return buf.String(), nil
}

// HTML renders the commentary of column/kind to sanitized HTML.
func (b *Book) HTML(column string, kind Kind, data Data) (string, error) {
	md, err := b.Markdown(column, kind, data)
	if err != nil || md == "" {
		return "", err
	}
	return ToHTML(md), nil
}

// ToHTML converts markdown to HTML, dropping any raw HTML in the input.
func ToHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, r))
}
