// Package dataset holds the tabular snapshot the analysis engine reads.
// The engine never mutates a Dataset; callers own the data.
package dataset

import "strings"

// Dataset represents one spreadsheet-like table: an ordered header row
// plus positionally aligned data rows. Cells are kept as trimmed strings;
// numeric interpretation happens on demand in the passes that need it.
type Dataset struct {
	Name    string     `json:"name,omitempty"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of data rows.
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (d *Dataset) ColumnIndex(header string) int {
	for i, h := range d.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at (row, col). Rows shorter than the
// header count are treated as having empty trailing cells.
func (d *Dataset) Cell(row, col int) string {
	if row < 0 || row >= len(d.Rows) || col < 0 {
		return ""
	}
	r := d.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Column collects the trimmed values of one column across all rows,
// padding short rows with empty strings.
func (d *Dataset) Column(col int) []string {
	out := make([]string, len(d.Rows))
	for i := range d.Rows {
		out[i] = d.Cell(i, col)
	}
	return out
}

// IsEmptyCell reports whether a trimmed cell value counts as missing.
func IsEmptyCell(v string) bool {
	return strings.TrimSpace(v) == ""
}
