package source

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/okian/acadash/internal/domain/dataset"
)

// indexColumnPrefix marks index columns written by dataframe libraries.
const indexColumnPrefix = "__index_level_"

const parquetBatch = 256

// Parquet reads a flat Parquet file. Leaf column paths become column names
// and nulls become empty cells.
type Parquet struct {
	path string
	opts options
}

// Path implements Source.
func (p *Parquet) Path() string { return p.path }

// Read implements Source.
func (p *Parquet) Read(ctx context.Context) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, p.path, err)
	}

	leaves := pf.Schema().Columns()
	header := make([]string, 0, len(leaves))
	keep := make([]int, len(leaves))
	for i, path := range leaves {
		name := strings.Join(path, ".")
		if strings.HasPrefix(name, indexColumnPrefix) {
			keep[i] = -1
			continue
		}
		keep[i] = len(header)
		header = append(header, name)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, p.path)
	}

	body := make([][]string, 0, pf.NumRows())
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		body, err = readRowGroup(rg, keep, len(header), body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrRead, p.path, err)
		}
	}
	normalizeCells(body)
	return build(p.path, header, body, p.opts.hint)
}

func readRowGroup(rg parquet.RowGroup, keep []int, width int, body [][]string) ([][]string, error) {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()

	buf := make([]parquet.Row, parquetBatch)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, width)
			for _, v := range row {
				col := v.Column()
				if col < 0 || col >= len(keep) || keep[col] < 0 {
					continue
				}
				cells[keep[col]] = formatValue(v)
			}
			body = append(body, cells)
		}
		if err == io.EOF {
			return body, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// formatValue renders a leaf value the way it would appear in a text file.
func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return formatFloat(float64(v.Float()), 32)
	case parquet.Double:
		return formatFloat(v.Double(), 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}

// formatFloat maps NaN, used by dataframes for missing numbers, to empty.
func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
