// Package reshape turns irregular spreadsheet extracts into indexed tables:
// locating where headers end, building hierarchical indexes, filling header
// gaps and splitting columns or rows into several.
package reshape

import (
	"unicode"
	"unicode/utf8"

	"github.com/philipnye/ds-utils/internal/table"
)

// FirstNumeric returns the ordinal of the first row (axis Rows) or column
// (axis Columns) holding a cell whose text starts with a numeric character.
// Missing cells are ignored and excluded ordinals are skipped.
func FirstNumeric(t *table.Table, axis table.Axis, exclude ...int) (int, error) {
	if err := axis.Validate(); err != nil {
		return -1, err
	}
	skip := make(map[int]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	n, m := t.NumRows(), t.NumCols()
	if axis == table.Columns {
		n, m = m, n
	}
	for i := 0; i < n; i++ {
		if skip[i] {
			continue
		}
		for j := 0; j < m; j++ {
			v := t.Cell(i, j)
			if axis == table.Columns {
				v = t.Cell(j, i)
			}
			if numericLooking(v) {
				return i, nil
			}
		}
	}
	return -1, &table.NotFoundError{Op: "first numeric", What: "no " + singular(axis) + " with a numeric value"}
}

func numericLooking(v table.Value) bool {
	if v.IsMissing() {
		return false
	}
	r, _ := utf8.DecodeRuneInString(v.String())
	return r != utf8.RuneError && unicode.IsNumber(r)
}

func singular(a table.Axis) string {
	if a == table.Columns {
		return "column"
	}
	return "row"
}
