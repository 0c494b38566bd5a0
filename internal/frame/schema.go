package frame

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// ColumnType is the declared semantic type of a schema column
type ColumnType string

const (
	// String declares a text column
	String ColumnType = "string"
	// Int declares an integer column
	Int ColumnType = "int"
	// Float declares a floating-point column
	Float ColumnType = "float"
	// Bool declares a boolean column
	Bool ColumnType = "bool"
	// Timestamp declares a date or datetime column
	Timestamp ColumnType = "timestamp"
)

// Column declares one schema column: its name, semantic type and whether
// null values are accepted.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Schema is the declared column contract enforced on raw source data
type Schema []Column

// SchemaError reports a contract violation. It is fatal for the run: no
// partial validation is performed.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation on column %q: %s", e.Column, e.Reason)
}

// Columns returns the declared column names in order
func (s Schema) Columns() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Validate enforces the schema on a raw frame. Undeclared columns are
// dropped and counted; a missing declared column, a null in a non-nullable
// column or an uncoercible value returns a *SchemaError. The result carries
// exactly the declared columns with values coerced to their declared types.
func (s Schema) Validate(f *Frame) (*Frame, error) {
	declared := make(map[string]bool, len(s))
	for _, c := range s {
		declared[c.Name] = true
		if !f.HasColumn(c.Name) {
			return nil, &SchemaError{Column: c.Name, Reason: "required column is absent"}
		}
	}

	dropped := 0
	for _, name := range f.Columns() {
		if !declared[name] {
			dropped++
		}
	}

	out := New(s.Columns()...)
	for i, row := range f.Rows() {
		validated := make(Row, len(s))
		for _, c := range s {
			v, err := coerce(row[c.Name], c.Type)
			if err != nil {
				return nil, &SchemaError{
					Column: c.Name,
					Reason: fmt.Sprintf("row %d: %v", i, err),
				}
			}
			if v == nil && !c.Nullable {
				return nil, &SchemaError{
					Column: c.Name,
					Reason: fmt.Sprintf("row %d: null value in non-nullable column", i),
				}
			}
			validated[c.Name] = v
		}
		out.Append(validated)
	}

	slog.Info("validated raw data",
		"rows", out.Len(),
		"columns", len(s),
		"dropped_columns", dropped,
	)
	return out, nil
}

// timestampLayouts lists accepted textual datetime formats, most specific
// first. The compact layout covers DBF date attributes.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
}

func coerce(v any, t ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}
	// empty text is null for every type except string
	if s, ok := v.(string); ok && s == "" && t != String {
		return nil, nil
	}

	switch t {
	case String:
		switch val := v.(type) {
		case string:
			return val, nil
		case int64:
			return strconv.FormatInt(val, 10), nil
		case float64:
			return strconv.FormatFloat(val, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(val), nil
		case time.Time:
			return val.UTC().Format(time.RFC3339), nil
		}
	case Int:
		switch val := v.(type) {
		case int64:
			return val, nil
		case int:
			return int64(val), nil
		case float64:
			if val == float64(int64(val)) {
				return int64(val), nil
			}
			return nil, fmt.Errorf("cannot coerce %v to int", val)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				return n, nil
			}
			if fl, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil && fl == float64(int64(fl)) {
				return int64(fl), nil
			}
			return nil, fmt.Errorf("cannot coerce %q to int", val)
		}
	case Float:
		switch val := v.(type) {
		case float64:
			return val, nil
		case int64:
			return float64(val), nil
		case int:
			return float64(val), nil
		case string:
			if fl, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				return fl, nil
			}
			return nil, fmt.Errorf("cannot coerce %q to float", val)
		}
	case Bool:
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			if b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val))); err == nil {
				return b, nil
			}
			return nil, fmt.Errorf("cannot coerce %q to bool", val)
		}
	case Timestamp:
		switch val := v.(type) {
		case time.Time:
			return val, nil
		case string:
			trimmed := strings.TrimSpace(val)
			for _, layout := range timestampLayouts {
				if ts, err := time.Parse(layout, trimmed); err == nil {
					return ts, nil
				}
			}
			return nil, fmt.Errorf("cannot coerce %q to timestamp", val)
		}
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", v, t)
}
