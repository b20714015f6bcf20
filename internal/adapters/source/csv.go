package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/acadash/internal/domain/dataset"
)

// CSV reads a delimited text file with a header row. The delimiter is
// detected from the header among ',', ';' and tab.
type CSV struct {
	path string
	opts options
}

// Path implements Source.
func (c *CSV) Path() string { return c.path }

// Read implements Source.
func (c *CSV) Read(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()
	return c.parse(ctx, f)
}

func (c *CSV) parse(ctx context.Context, r io.Reader) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(peekSize(br))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(first))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, c.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, c.path)
	}
	body := rows[1:]
	normalizeCells(body)
	return build(c.path, rows[0], body, c.opts.hint)
}

const maxPeek = 64 * 1024

func peekSize(br *bufio.Reader) int {
	return min(br.Size(), maxPeek)
}

// detectDelimiter picks the most frequent candidate on the first line.
func detectDelimiter(sample string) rune {
	line, _, _ := strings.Cut(sample, "\n")
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
