package models

import "strings"

// Table is a column-ordered tabular result, either fetched from the
// warehouse or parsed from an uploaded file. Cells are held as strings;
// the empty string means missing.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column, matching
// case-insensitively, or -1 when the column is absent.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column in row order.
// A missing column yields nil.
func (t Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			values = append(values, row[idx])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// Empty reports whether the table holds no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}
