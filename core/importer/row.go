package importer

import "strings"

// RawRow is one untyped input row: an ordered column→value mapping plus its
// 1-based source row number used for diagnostics. It is immutable once built.
type RawRow struct {
	number  int
	columns []string
	values  map[string]string
}

// NewRawRow builds a RawRow from parsed tabular input. The columns slice
// defines the source column order; values maps column name to the raw cell.
// Both are copied so later mutation by the caller cannot leak in.
func NewRawRow(number int, columns []string, values map[string]string) RawRow {
	cols := make([]string, len(columns))
	copy(cols, columns)

	vals := make(map[string]string, len(values))
	for k, v := range values {
		vals[k] = v
	}

	return RawRow{number: number, columns: cols, values: vals}
}

// Number returns the 1-based source row number.
func (r RawRow) Number() int {
	return r.number
}

// Columns returns the source column order.
func (r RawRow) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Get returns the raw cell value for a column, or "" if the column is absent.
func (r RawRow) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column holds a non-blank value.
func (r RawRow) Has(column string) bool {
	return strings.TrimSpace(r.values[column]) != ""
}

// Empty reports whether every cell in the row is blank. Trailing CSV rows
// often arrive this way; the engine counts them as skipped.
func (r RawRow) Empty() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
