package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the only accepted calendar-date form in import files.
const dateLayout = "2006-01-02"

// FieldType enumerates the coercion applied to a raw cell.
type FieldType int

const (
	// FieldString stores the trimmed cell as-is.
	FieldString FieldType = iota
	// FieldInt parses a locale-invariant integer; unparseable optional cells
	// become absent rather than zero.
	FieldInt
	// FieldFloat parses a locale-invariant float; same absence rule as FieldInt.
	FieldFloat
	// FieldDate parses a strict YYYY-MM-DD calendar date. An invalid date in a
	// populated cell is always a row error.
	FieldDate
	// FieldEnum maps the cell through a named EnumMapping with a silent
	// fallback for unrecognized values.
	FieldEnum
)

// EnumMapping is an explicit, named table of accepted enum spellings.
// Unrecognized or blank inputs map to the fallback value instead of failing
// the row, which keeps the permissive-input policy auditable in one place.
type EnumMapping struct {
	name     string
	fallback string
	values   map[string]string
}

// NewEnumMapping builds a mapping that accepts each canonical value
// case-insensitively and maps everything else to fallback.
func NewEnumMapping(name, fallback string, canonical ...string) *EnumMapping {
	values := make(map[string]string, len(canonical)+1)
	values[strings.ToLower(fallback)] = fallback
	for _, v := range canonical {
		values[strings.ToLower(v)] = v
	}
	return &EnumMapping{name: name, fallback: fallback, values: values}
}

// Name returns the mapping's name, used in logs and tests.
func (m *EnumMapping) Name() string {
	return m.name
}

// Fallback returns the documented default value.
func (m *EnumMapping) Fallback() string {
	return m.fallback
}

// Map resolves a raw spelling to its canonical value, falling back to the
// default for blank or unrecognized input.
func (m *EnumMapping) Map(raw string) string {
	if v, ok := m.values[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return m.fallback
}

// FieldSpec describes one schema field.
type FieldSpec struct {
	// Name is the source column name and the key under which the typed value
	// is stored on the Record.
	Name string

	// Label is the human-readable name used in diagnostics,
	// e.g. "Property name".
	Label string

	// Type selects the coercion rule.
	Type FieldType

	// Required makes a blank cell a hard per-row error.
	Required bool

	// Enum is the mapping table for FieldEnum fields.
	Enum *EnumMapping
}

// Schema is the validation contract for one entity's import rows.
type Schema struct {
	// Entity names the target entity ("property", "booking", "contact").
	Entity string

	// Fields lists the recognized columns and their coercion rules.
	Fields []FieldSpec

	// Sections maps an optional sub-entity name (e.g. "pricing") to its
	// marker columns. The sub-entity is considered present when ANY marker
	// column is non-blank, so partially populated sections still process.
	Sections map[string][]string
}

// Validate type-coerces one raw row against the schema. It returns either a
// typed Record or a non-empty list of field diagnostics; malformed input is a
// normal result, never an error.
func (s *Schema) Validate(row RawRow) (*Record, []Diagnostic) {
	values := make(map[string]any, len(s.Fields))
	var diags []Diagnostic

	fail := func(field FieldSpec, format string, args ...any) {
		diags = append(diags, Diagnostic{
			Row:     row.Number(),
			Field:   field.Name,
			Message: fmt.Sprintf(format, args...),
		})
	}

	for _, field := range s.Fields {
		raw := strings.TrimSpace(row.Get(field.Name))

		if raw == "" {
			if field.Required {
				fail(field, "%s is required", field.Label)
			} else if field.Type == FieldEnum && field.Enum != nil {
				// Blank enum cells still take the documented default.
				values[field.Name] = field.Enum.Fallback()
			}
			continue
		}

		switch field.Type {
		case FieldString:
			values[field.Name] = raw

		case FieldInt:
			n, err := strconv.Atoi(raw)
			if err != nil {
				if field.Required {
					fail(field, "%s must be a whole number", field.Label)
				}
				continue
			}
			values[field.Name] = n

		case FieldFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				if field.Required {
					fail(field, "%s must be a number", field.Label)
				}
				continue
			}
			values[field.Name] = f

		case FieldDate:
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				fail(field, "%s must be a valid date (YYYY-MM-DD)", field.Label)
				continue
			}
			values[field.Name] = d

		case FieldEnum:
			if field.Enum == nil {
				values[field.Name] = raw
				continue
			}
			values[field.Name] = field.Enum.Map(raw)
		}
	}

	if len(diags) > 0 {
		return nil, diags
	}
	return &Record{row: row, schema: s, values: values}, nil
}
