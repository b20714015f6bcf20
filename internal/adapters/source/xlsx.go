package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/okian/acadash/internal/domain/dataset"
)

// XLSX reads one worksheet of an Excel workbook; the first row is the header.
type XLSX struct {
	path string
	opts options
}

// Path implements Source.
func (x *XLSX) Path() string { return x.path }

// Read implements Source.
func (x *XLSX) Read(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	sheet := x.opts.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrEmpty, x.path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrRead, sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s sheet %q", ErrEmpty, x.path, sheet)
	}
	body := rows[1:]
	normalizeCells(body)
	return build(x.path, rows[0], body, x.opts.hint)
}
