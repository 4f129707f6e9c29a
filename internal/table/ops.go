package table

import (
	"fmt"
	"strconv"
)

// CheckCount reports whether the row or column count of t lies within
// [min, max] inclusive.
func CheckCount(t *Table, min, max int, axis Axis) (bool, error) {
	if err := axis.Validate(); err != nil {
		return false, err
	}
	if min < 0 || max < 0 {
		return false, Errorf("check count", "min and max must be >= 0")
	}
	if min > max {
		return false, Errorf("check count", "min must be <= max")
	}
	n := t.NumRows()
	if axis == Columns {
		n = t.NumCols()
	}
	return min <= n && n <= max, nil
}

// NullOptions controls CountNulls.
type NullOptions struct {
	// GroupBy names columns whose values partition the rows.
	GroupBy []string
	// Transpose puts source columns on the rows of the result.
	Transpose bool
	// Percent reports the missing fraction instead of the count.
	Percent bool
	// Format is an fmt verb applied to every result, e.g. "%.1f".
	Format string
}

// CountNulls counts missing cells per column of t. Without GroupBy the result
// has one row labelled "nulls"; with GroupBy it has one row per group, in
// order of first appearance, and the grouping columns are left out.
func CountNulls(t *Table, opt NullOptions) (*Table, error) {
	var groupPos []int
	for _, name := range opt.GroupBy {
		p, err := t.ColumnPos(name)
		if err != nil {
			return nil, err
		}
		groupPos = append(groupPos, p)
	}
	grouped := make(map[int]bool, len(groupPos))
	for _, p := range groupPos {
		grouped[p] = true
	}
	var measured []int
	for c := 0; c < t.NumCols(); c++ {
		if !grouped[c] {
			measured = append(measured, c)
		}
	}

	var groups []Label
	members := map[string][]int{}
	if len(groupPos) == 0 {
		groups = []Label{Scalar("nulls")}
		all := make([]int, t.NumRows())
		for i := range all {
			all[i] = i
		}
		members[groups[0].Key()] = all
	} else {
		for r := 0; r < t.NumRows(); r++ {
			key := make(Label, len(groupPos))
			for i, p := range groupPos {
				key[i] = t.cells[r][p]
			}
			k := key.Key()
			if _, ok := members[k]; !ok {
				groups = append(groups, key)
			}
			members[k] = append(members[k], r)
		}
	}

	cells := make([][]Value, len(groups))
	for g, key := range groups {
		rows := members[key.Key()]
		row := make([]Value, len(measured))
		for j, c := range measured {
			n := 0
			for _, r := range rows {
				if t.cells[r][c].IsMissing() {
					n++
				}
			}
			row[j] = String(formatCount(n, len(rows), opt))
		}
		cells[g] = row
	}

	rowNames := []string{""}
	if len(groupPos) > 0 {
		rowNames = append([]string(nil), opt.GroupBy...)
	}
	rows := Index{Names: rowNames, Labels: groups}
	cols := Index{Names: append([]string(nil), t.Columns.Names...)}
	for _, c := range measured {
		cols.Labels = append(cols.Labels, t.Columns.Labels[c].Clone())
	}
	out := &Table{Rows: rows, Columns: cols, cells: cells}
	if opt.Transpose {
		out = Transpose(out)
	}
	return out, nil
}

func formatCount(n, total int, opt NullOptions) string {
	if !opt.Percent {
		if opt.Format != "" {
			return fmt.Sprintf(opt.Format, n)
		}
		return strconv.Itoa(n)
	}
	f := 0.0
	if total > 0 {
		f = float64(n) / float64(total)
	}
	if opt.Format != "" {
		return fmt.Sprintf(opt.Format, f)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Transpose swaps rows and columns, including their indexes.
func Transpose(t *Table) *Table {
	cells := make([][]Value, t.NumCols())
	for c := range cells {
		cells[c] = t.Column(c)
	}
	return &Table{Rows: t.Columns.Clone(), Columns: t.Rows.Clone(), cells: cells}
}
