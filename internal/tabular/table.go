// Package tabular reads and writes the column-oriented tables the
// pipeline consumes: delimited text with encoding fallback, and xlsx
// workbooks.
package tabular

import "fmt"

// Table is a rectangular, string-typed table with named columns. Values
// stay untyped until the normalizer coerces them.
type Table struct {
	index   map[string]int
	columns []string
	rows    [][]string
}

// New creates an empty table with the given column names.
func New(columns []string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		t.index[c] = i
	}
	return t
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a data row, padding or truncating to the column count.
func (t *Table) Append(row []string) {
	r := make([]string, len(t.columns))
	copy(r, row)
	t.rows = append(t.rows, r)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// Value returns the value at a row and named column, or "" when the
// column does not exist.
func (t *Table) Value(row int, column string) string {
	i, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// HasColumn reports whether the table has a column of that name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the subset of required column names the table
// lacks, in the order given.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Concat appends another table with an identical column set, in order.
func (t *Table) Concat(other *Table) error {
	if len(t.columns) != len(other.columns) {
		return fmt.Errorf("cannot concatenate tables: %d columns vs %d", len(t.columns), len(other.columns))
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return fmt.Errorf("cannot concatenate tables: column %d is %q vs %q", i, c, other.columns[i])
		}
	}
	for _, r := range other.rows {
		t.Append(r)
	}
	return nil
}
