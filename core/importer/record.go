package importer

import "time"

// Record is the typed result of validating one RawRow against a Schema.
// Absent optional fields stay absent; accessors report presence explicitly.
type Record struct {
	row    RawRow
	schema *Schema
	values map[string]any
}

// Row returns the underlying raw row.
func (r *Record) Row() RawRow {
	return r.row
}

// Number returns the 1-based source row number.
func (r *Record) Number() int {
	return r.row.Number()
}

// Has reports whether the field carries a typed value.
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// String returns the string value of a field, or "" when absent.
func (r *Record) String(field string) string {
	s, _ := r.values[field].(string)
	return s
}

// Int returns the integer value of a field and whether it is present.
func (r *Record) Int(field string) (int, bool) {
	n, ok := r.values[field].(int)
	return n, ok
}

// Float returns the float value of a field and whether it is present.
func (r *Record) Float(field string) (float64, bool) {
	f, ok := r.values[field].(float64)
	return f, ok
}

// Date returns the date value of a field and whether it is present.
func (r *Record) Date(field string) (time.Time, bool) {
	d, ok := r.values[field].(time.Time)
	return d, ok
}

// HasSection applies the schema's marker-column heuristic: the named
// sub-entity is present when any of its marker columns is non-blank on the
// source row. Missing marker values inside a present section simply stay
// absent on the record.
func (r *Record) HasSection(name string) bool {
	for _, col := range r.schema.Sections[name] {
		if r.row.Has(col) {
			return true
		}
	}
	return false
}
