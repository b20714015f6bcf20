package source

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\ufeff"

// NormalizeName trims a column name and converts it to NFC so names typed
// with combining accents compare equal to precomposed ones.
func NormalizeName(name string) string {
	name = strings.TrimPrefix(name, byteOrderMark)
	return norm.NFC.String(strings.TrimSpace(name))
}

// normalizeHeader normalizes every name and trims trailing empty columns.
// Blank names in the middle become "column_<n>".
func normalizeHeader(header []string) []string {
	end := len(header)
	for end > 0 && NormalizeName(header[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i := 0; i < end; i++ {
		name := NormalizeName(header[i])
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		out[i] = name
	}
	return out
}

// normalizeCells converts every cell to NFC so categorical values compare
// exactly regardless of how the file encoded accents.
func normalizeCells(rows [][]string) {
	for _, row := range rows {
		for j, cell := range row {
			if !norm.NFC.IsNormalString(cell) {
				row[j] = norm.NFC.String(cell)
			}
		}
	}
}
