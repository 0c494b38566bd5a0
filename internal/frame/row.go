package frame

import "time"

// Typed accessors for validated rows. They return the zero value when the
// cell is null or absent; use IsNull to distinguish.

// IsNull reports whether the cell holds no value
func (r Row) IsNull(name string) bool {
	v, ok := r[name]
	return !ok || v == nil
}

// Str returns the cell as a string
func (r Row) Str(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Int returns the cell as an int64
func (r Row) Int(name string) int64 {
	if v, ok := r[name].(int64); ok {
		return v
	}
	return 0
}

// Float returns the cell as a float64
func (r Row) Float(name string) float64 {
	if v, ok := r[name].(float64); ok {
		return v
	}
	return 0
}

// Bool returns the cell as a bool
func (r Row) Bool(name string) bool {
	if v, ok := r[name].(bool); ok {
		return v
	}
	return false
}

// Time returns the cell as a time.Time
func (r Row) Time(name string) time.Time {
	if v, ok := r[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}
