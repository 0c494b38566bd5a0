package frame

// Row is one record of a frame, keyed by column name. Values hold nil,
// string, int64, float64, bool or time.Time once validated.
type Row map[string]any

// Frame is an ordered-column tabular frame as delivered by a source
// fetcher. Rows are untyped until validated against a Schema.
type Frame struct {
	columns []string
	rows    []Row
}

// New creates an empty frame with the given column order
func New(columns ...string) *Frame {
	return &Frame{columns: append([]string(nil), columns...)}
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	return f.columns
}

// HasColumn reports whether the frame declares the column
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row to the frame
func (f *Frame) Append(row Row) {
	f.rows = append(f.rows, row)
}

// Rows returns the rows in insertion order
func (f *Frame) Rows() []Row {
	return f.rows
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.rows)
}

// Select returns a new frame restricted to the given columns, in the given
// order. Values of unselected columns are discarded.
func (f *Frame) Select(columns ...string) *Frame {
	out := New(columns...)
	for _, row := range f.rows {
		selected := make(Row, len(columns))
		for _, c := range columns {
			if v, ok := row[c]; ok {
				selected[c] = v
			}
		}
		out.Append(selected)
	}
	return out
}

// Filter returns a new frame keeping only rows for which keep returns true
func (f *Frame) Filter(keep func(Row) bool) *Frame {
	out := New(f.columns...)
	for _, row := range f.rows {
		if keep(row) {
			out.Append(row)
		}
	}
	return out
}
