package table

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn is returned when two columns share a name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrRaggedRow is returned when a row's width differs from the column count.
var ErrRaggedRow = errors.New("row width does not match column count")

// Table is an immutable rectangular table.
type Table struct {
	columns []Column
	rows    [][]Value
}

// New builds a table from explicit column definitions. Every row must have
// exactly one value per column. The slices are copied.
func New(columns []Column, rows [][]Value) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if _, dup := seen[col.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		seen[col.Name] = struct{}{}
	}

	t := &Table{
		columns: append([]Column(nil), columns...),
		rows:    make([][]Value, len(rows)),
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRaggedRow, i, len(row), len(columns))
		}
		t.rows[i] = append([]Value(nil), row...)
	}
	return t, nil
}

// FromValues builds a table and infers each column's type from its values.
// Integer columns that contain nulls are coerced to float, matching how the
// loaders type their columns.
func FromValues(names []string, rows [][]Value) (*Table, error) {
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name}
	}
	t, err := New(columns, rows)
	if err != nil {
		return nil, err
	}

	cells := make([]Value, len(t.rows))
	for c := range t.columns {
		for r, row := range t.rows {
			cells[r] = row[c]
		}
		typ, coerced := InferValues(cells)
		t.columns[c].Type = typ
		for r, row := range t.rows {
			row[c] = coerced[r]
		}
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns a copy of the column definitions.
func (t *Table) Columns() []Column { return append([]Column(nil), t.columns...) }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value { return append([]Value(nil), t.rows[i]...) }

// At returns the value at row r, column c.
func (t *Table) At(r, c int) Value { return t.rows[r][c] }

// Filter returns a new table holding the rows for which keep returns true,
// in their original order. keep must not retain or modify the row slice.
func (t *Table) Filter(keep func(row []Value) bool) *Table {
	out := &Table{columns: t.Columns(), rows: make([][]Value, 0, len(t.rows))}
	for _, row := range t.rows {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Transform returns a new table where every value of the listed columns is
// replaced by fn(value). The other columns are shared with t.
func (t *Table) Transform(columns []int, fn func(Value) Value) *Table {
	out := &Table{columns: t.Columns(), rows: make([][]Value, len(t.rows))}
	for r, row := range t.rows {
		if len(columns) == 0 {
			out.rows[r] = row
			continue
		}
		copied := append([]Value(nil), row...)
		for _, c := range columns {
			copied[c] = fn(copied[c])
		}
		out.rows[r] = copied
	}
	return out
}

// Head returns a table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return &Table{columns: t.Columns(), rows: t.rows[:n:n]}
}

// Equal reports whether both tables have the same columns and cell values.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for r := range t.rows {
		for c := range t.rows[r] {
			if !t.rows[r][c].Equal(o.rows[r][c]) {
				return false
			}
		}
	}
	return true
}
