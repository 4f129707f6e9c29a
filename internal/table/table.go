package table

import (
	"fmt"
)

// Table is a row-major grid of Values with a label index on each axis.
type Table struct {
	Rows    Index
	Columns Index
	cells   [][]Value
}

// New builds a table from a raw grid with positional indexes on both axes.
// Ragged rows are padded with missing cells.
func New(grid [][]Value) *Table {
	width := 0
	for _, r := range grid {
		if len(r) > width {
			width = len(r)
		}
	}
	cells := make([][]Value, len(grid))
	for i, r := range grid {
		row := make([]Value, width)
		copy(row, r)
		cells[i] = row
	}
	return &Table{Rows: Positional(len(grid)), Columns: Positional(width), cells: cells}
}

// NewIndexed builds a table whose shape must agree with both indexes.
func NewIndexed(rows, cols Index, cells [][]Value) (*Table, error) {
	if len(cells) != rows.Len() {
		return nil, Errorf("table", "%d rows of data for %d row labels", len(cells), rows.Len())
	}
	out := make([][]Value, len(cells))
	for i, r := range cells {
		if len(r) != cols.Len() {
			return nil, Errorf("table", "row %d has %d cells, want %d", i, len(r), cols.Len())
		}
		out[i] = append([]Value(nil), r...)
	}
	return &Table{Rows: rows.Clone(), Columns: cols.Clone(), cells: out}, nil
}

// FromRecords uses header as a single named-column level over records.
func FromRecords(header []string, records [][]Value) *Table {
	t := New(records)
	width := len(header)
	if t.NumCols() > width {
		width = t.NumCols()
	}
	labels := make([]Label, width)
	for i := range labels {
		if i < len(header) {
			labels[i] = Scalar(header[i])
		} else {
			labels[i] = Scalar(fmt.Sprintf("column_%d", i))
		}
	}
	for i, r := range t.cells {
		if len(r) < width {
			row := make([]Value, width)
			copy(row, r)
			t.cells[i] = row
		}
	}
	t.Columns = Index{Names: []string{""}, Labels: labels}
	return t
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.cells) }

// NumCols returns the number of data columns.
func (t *Table) NumCols() int { return t.Columns.Len() }

// Cell returns the value at row r, column c.
func (t *Table) Cell(r, c int) Value { return t.cells[r][c] }

// SetCell overwrites the value at row r, column c.
func (t *Table) SetCell(r, c int, v Value) { t.cells[r][c] = v }

// Row returns a copy of row r.
func (t *Table) Row(r int) []Value { return append([]Value(nil), t.cells[r]...) }

// Column returns a copy of column c.
func (t *Table) Column(c int) []Value {
	out := make([]Value, len(t.cells))
	for i, r := range t.cells {
		out[i] = r[c]
	}
	return out
}

// Grid returns a copy of all cells.
func (t *Table) Grid() [][]Value {
	out := make([][]Value, len(t.cells))
	for i, r := range t.cells {
		out[i] = append([]Value(nil), r...)
	}
	return out
}

// Clone deep-copies t.
func (t *Table) Clone() *Table {
	return &Table{Rows: t.Rows.Clone(), Columns: t.Columns.Clone(), cells: t.Grid()}
}

// ColumnPos resolves a column label path, see Index.Find.
func (t *Table) ColumnPos(path ...string) (int, error) {
	return t.Columns.Find(path...)
}

// ColumnNames renders every column label with Label.String.
func (t *Table) ColumnNames() []string { return t.Columns.labelStrings() }

// Sub returns rows [r0, r1) and columns [c0, c1) as a new table.
func (t *Table) Sub(r0, r1, c0, c1 int) (*Table, error) {
	if r0 < 0 || r1 < r0 || r1 > t.NumRows() || c0 < 0 || c1 < c0 || c1 > t.NumCols() {
		return nil, Errorf("sub", "range [%d:%d, %d:%d] outside %dx%d table", r0, r1, c0, c1, t.NumRows(), t.NumCols())
	}
	cells := make([][]Value, 0, r1-r0)
	for _, r := range t.cells[r0:r1] {
		cells = append(cells, append([]Value(nil), r[c0:c1]...))
	}
	return &Table{Rows: t.Rows.slice(r0, r1), Columns: t.Columns.slice(c0, c1), cells: cells}, nil
}

// SelectColumns returns the columns at the given positions, in order.
func (t *Table) SelectColumns(pos []int) *Table {
	cols := Index{Names: append([]string(nil), t.Columns.Names...)}
	for _, p := range pos {
		cols.Labels = append(cols.Labels, t.Columns.Labels[p].Clone())
	}
	cells := make([][]Value, len(t.cells))
	for i, r := range t.cells {
		row := make([]Value, len(pos))
		for j, p := range pos {
			row[j] = r[p]
		}
		cells[i] = row
	}
	return &Table{Rows: t.Rows.Clone(), Columns: cols, cells: cells}
}

// Equal compares both indexes and every cell.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !t.Rows.Equal(o.Rows) || !t.Columns.Equal(o.Columns) || len(t.cells) != len(o.cells) {
		return false
	}
	for i := range t.cells {
		if len(t.cells[i]) != len(o.cells[i]) {
			return false
		}
		for j := range t.cells[i] {
			if !t.cells[i][j].Equal(o.cells[i][j]) {
				return false
			}
		}
	}
	return true
}

// Replace overwrites t with the contents of src. In-place entry points
// compute into a fresh table and then call Replace.
func (t *Table) Replace(src *Table) {
	t.Rows, t.Columns, t.cells = src.Rows, src.Columns, src.cells
}
