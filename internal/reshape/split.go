package reshape

import (
	"fmt"
	"strings"

	"github.com/philipnye/ds-utils/internal/table"
)

// Bucket is one output group of a value split. A catch-all bucket holds no
// values and receives everything the other buckets leave behind.
type Bucket struct {
	Values   []string
	CatchAll bool
}

// ValueSplitOptions controls SplitColumnByValues.
type ValueSplitOptions struct {
	Buckets []Bucket
	// MissingValues, when set, has one entry per bucket; a present entry
	// replaces the gaps left in that column after filling.
	MissingValues []table.Value
	// ColumnNames defaults to column_0..column_{n-1}.
	ColumnNames []string
	// FillNamed forward-fills the named bucket columns instead of the
	// catch-all column, so parent headings carry down to their children.
	FillNamed bool
	// Lenient skips the check that every listed value occurs in the source.
	// It is not implemented.
	Lenient bool
}

// SplitColumnByValues spreads the values of one column over several new
// columns, one per bucket. column is either a data column label or the name
// of a row index level; a row level is replaced in place by the new levels.
//
// By default the catch-all column is forward-filled down every row, including
// rows claimed by a named bucket, so with source [A C B D] and buckets
// [[A B] [*]] row B inherits C, a child of A. Set FillNamed when the named
// buckets are the parents.
func SplitColumnByValues(t *table.Table, column string, opt ValueSplitOptions) (*table.Table, error) {
	names, err := checkBuckets(opt)
	if err != nil {
		return nil, err
	}
	if opt.Lenient {
		return nil, &table.NotImplementedError{Feature: "non-strict value splitting"}
	}

	level, pos := -1, -1
	var source []table.Value
	if l, lerr := t.Rows.Level(column); lerr == nil {
		level = l
		source = t.Rows.LevelValues(l)
	} else {
		p, cerr := t.ColumnPos(column)
		if cerr != nil {
			return nil, cerr
		}
		pos = p
		source = t.Column(p)
	}
	if err := checkPresent(column, source, opt.Buckets); err != nil {
		return nil, err
	}

	split := allocate(source, opt.Buckets)
	for i, b := range opt.Buckets {
		if b.CatchAll != opt.FillNamed {
			forwardFill(split[i])
		}
	}
	for i, mv := range opt.MissingValues {
		if mv.IsMissing() {
			continue
		}
		for r, v := range split[i] {
			if v.IsMissing() {
				split[i][r] = mv
			}
		}
	}

	if level >= 0 {
		return replaceRowLevel(t, level, names, split)
	}
	return replaceColumn(t, pos, names, split)
}

func checkBuckets(opt ValueSplitOptions) ([]string, error) {
	if len(opt.Buckets) == 0 {
		return nil, table.Errorf("split column", "values must be supplied")
	}
	catchAll := 0
	for i, b := range opt.Buckets {
		if !b.CatchAll {
			if len(b.Values) == 0 {
				return nil, table.Errorf("split column", "bucket %d has no values", i)
			}
			continue
		}
		if len(b.Values) > 0 {
			return nil, table.Errorf("split column", "catch-all bucket %d must not list values", i)
		}
		catchAll++
		if catchAll > 1 {
			return nil, table.Errorf("split column", "only one catch-all bucket can be supplied")
		}
		if i != len(opt.Buckets)-1 {
			return nil, table.Errorf("split column", "catch-all bucket must be last")
		}
	}
	n := len(opt.Buckets)
	if opt.MissingValues != nil && len(opt.MissingValues) != n {
		return nil, table.Errorf("split column", "got %d missing values for %d buckets", len(opt.MissingValues), n)
	}
	if len(opt.ColumnNames) == 0 {
		return DefaultHeaderNames(n, table.Columns)
	}
	if len(opt.ColumnNames) != n {
		return nil, table.Errorf("split column", "got %d column names for %d buckets", len(opt.ColumnNames), n)
	}
	return append([]string(nil), opt.ColumnNames...), nil
}

func checkPresent(column string, source []table.Value, buckets []Bucket) error {
	seen := map[string]bool{}
	for _, v := range source {
		if !v.IsMissing() {
			seen[v.String()] = true
		}
	}
	var absent []string
	for _, b := range buckets {
		for _, v := range b.Values {
			if !seen[v] {
				absent = append(absent, v)
			}
		}
	}
	if len(absent) > 0 {
		return table.Errorf("split column", "values [%s] not in column %s", strings.Join(absent, ", "), column)
	}
	return nil
}

// allocate returns one column per bucket. The catch-all column keeps the
// source value wherever every other new column is missing.
func allocate(source []table.Value, buckets []Bucket) [][]table.Value {
	out := make([][]table.Value, len(buckets))
	catchAll := -1
	for i, b := range buckets {
		out[i] = make([]table.Value, len(source))
		if b.CatchAll {
			catchAll = i
			continue
		}
		set := make(map[string]bool, len(b.Values))
		for _, v := range b.Values {
			set[v] = true
		}
		for r, v := range source {
			if !v.IsMissing() && set[v.String()] {
				out[i][r] = v
			}
		}
	}
	if catchAll < 0 {
		return out
	}
	for r, v := range source {
		claimed := false
		for i := range buckets {
			if i != catchAll && !out[i][r].IsMissing() {
				claimed = true
				break
			}
		}
		if !claimed {
			out[catchAll][r] = v
		}
	}
	return out
}

func forwardFill(vals []table.Value) {
	var last table.Value
	for i, v := range vals {
		if v.IsMissing() {
			vals[i] = last
			continue
		}
		last = v
	}
}

func replaceColumn(t *table.Table, pos int, names []string, split [][]table.Value) (*table.Table, error) {
	cols := table.Index{Names: append([]string(nil), t.Columns.Names...)}
	src := t.Columns.Labels[pos]
	for c, l := range t.Columns.Labels {
		if c != pos {
			cols.Labels = append(cols.Labels, l.Clone())
			continue
		}
		for _, n := range names {
			lab := src.Clone()
			lab[len(lab)-1] = table.String(n)
			cols.Labels = append(cols.Labels, lab)
		}
	}
	cells := make([][]table.Value, t.NumRows())
	for r := range cells {
		old := t.Row(r)
		row := make([]table.Value, 0, len(old)+len(split)-1)
		row = append(row, old[:pos]...)
		for i := range split {
			row = append(row, split[i][r])
		}
		cells[r] = append(row, old[pos+1:]...)
	}
	return table.NewIndexed(t.Rows, cols, cells)
}

func replaceRowLevel(t *table.Table, level int, names []string, split [][]table.Value) (*table.Table, error) {
	old := t.Rows
	rows := table.Index{Names: make([]string, 0, len(old.Names)+len(names)-1)}
	rows.Names = append(rows.Names, old.Names[:level]...)
	rows.Names = append(rows.Names, names...)
	rows.Names = append(rows.Names, old.Names[level+1:]...)
	for p, l := range old.Labels {
		lab := make(table.Label, 0, len(rows.Names))
		lab = append(lab, l[:level]...)
		for i := range split {
			lab = append(lab, split[i][p])
		}
		rows.Labels = append(rows.Labels, append(lab, l[level+1:]...))
	}
	return table.NewIndexed(rows, t.Columns, t.Grid())
}

// SplitBy selects how SplitColumn divides a column.
type SplitBy int

const (
	ByValues SplitBy = iota
	BySeparator
)

// ParseSplitBy accepts values or sep.
func ParseSplitBy(s string) (SplitBy, error) {
	switch s {
	case "values", "":
		return ByValues, nil
	case "sep", "separator":
		return BySeparator, nil
	}
	return 0, table.Errorf("split column", "split by must be one of values/sep, got %q", s)
}

// SplitOptions controls SplitColumn.
type SplitOptions struct {
	By  SplitBy
	Sep string
	ValueSplitOptions
}

// SplitColumn dispatches on opt.By. Separator splitting of columns is not
// implemented.
func SplitColumn(t *table.Table, column string, opt SplitOptions) (*table.Table, error) {
	switch opt.By {
	case ByValues:
		if len(opt.Buckets) == 0 {
			return nil, table.Errorf("split column", "values must be supplied when splitting by values")
		}
		return SplitColumnByValues(t, column, opt.ValueSplitOptions)
	case BySeparator:
		if opt.Sep == "" {
			return nil, table.Errorf("split column", "sep must be supplied when splitting by separator")
		}
		return nil, &table.NotImplementedError{Feature: "separator column splitting"}
	}
	return nil, table.Errorf("split column", "unknown split mode %d", opt.By)
}

// RowSplitOptions controls SplitRowBySep.
type RowSplitOptions struct {
	// RowNames labels the new rows and must match their count.
	RowNames []string
	// Lenient allows cells without the separator; a row where no cell
	// contains it is returned unchanged.
	Lenient bool
}

// SplitRowBySep splits every present cell of row on sep and spreads the
// parts positionally over new rows inserted where row was. Cells with fewer
// parts are padded with missing values.
func SplitRowBySep(t *table.Table, row int, sep string, opt RowSplitOptions) (*table.Table, error) {
	if sep == "" {
		return nil, table.Errorf("split row", "sep must not be empty")
	}
	if row < 0 || row >= t.NumRows() {
		return nil, table.Errorf("split row", "row %d out of range [0, %d)", row, t.NumRows())
	}
	parts, width, err := splitCells(t.Row(row), sep, opt.Lenient, fmt.Sprintf("row %d", row))
	if err != nil {
		return nil, err
	}
	if parts == nil {
		return t.Clone(), nil
	}
	if len(opt.RowNames) > 0 && len(opt.RowNames) != width {
		return nil, table.Errorf("split row", "got %d row names for %d new rows", len(opt.RowNames), width)
	}

	cells := make([][]table.Value, 0, t.NumRows()+width-1)
	grid := t.Grid()
	cells = append(cells, grid[:row]...)
	for k := 0; k < width; k++ {
		r := make([]table.Value, t.NumCols())
		for c, ps := range parts {
			if k < len(ps) {
				r[c] = ps[k]
			}
		}
		cells = append(cells, r)
	}
	cells = append(cells, grid[row+1:]...)

	var rows table.Index
	if t.Rows.IsPositional() && len(opt.RowNames) == 0 {
		rows = table.Positional(len(cells))
	} else {
		names := opt.RowNames
		if len(names) == 0 {
			names, _ = DefaultHeaderNames(width, table.Rows)
		}
		rows = table.Index{Names: append([]string(nil), t.Rows.Names...)}
		for p, l := range t.Rows.Labels {
			if p != row {
				rows.Labels = append(rows.Labels, l.Clone())
				continue
			}
			for _, n := range names {
				lab := l.Clone()
				lab[len(lab)-1] = table.String(n)
				rows.Labels = append(rows.Labels, lab)
			}
		}
	}
	return table.NewIndexed(rows, t.Columns, cells)
}

// splitCells splits each present value on sep. It returns nil parts when
// lenient and no value contains sep.
func splitCells(vals []table.Value, sep string, lenient bool, what string) ([][]table.Value, int, error) {
	found := false
	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		if strings.Contains(v.String(), sep) {
			found = true
		} else if !lenient {
			return nil, 0, table.Errorf("split", "sep %q not in %s", sep, what)
		}
	}
	if lenient && !found {
		return nil, 0, nil
	}
	parts := make([][]table.Value, len(vals))
	width := 1
	for i, v := range vals {
		if v.IsMissing() {
			continue
		}
		pieces := strings.Split(v.String(), sep)
		parts[i] = table.Strings(pieces...)
		if len(pieces) > width {
			width = len(pieces)
		}
	}
	return parts, width, nil
}

// LevelSplitOptions controls SplitLevelBySep.
type LevelSplitOptions struct {
	// LevelNames defaults to row_0..row_{n-1}.
	LevelNames []string
	Lenient    bool
}

// SplitLevelBySep splits the labels of a single-level column index on sep,
// producing one column level per part.
func SplitLevelBySep(t *table.Table, level, sep string, opt LevelSplitOptions) (*table.Table, error) {
	if sep == "" {
		return nil, table.Errorf("split level", "sep must not be empty")
	}
	if t.Columns.Levels() != 1 {
		return nil, table.Errorf("split level", "column index must have a single level, has %d", t.Columns.Levels())
	}
	if t.Columns.Names[0] != level {
		return nil, &table.KeyError{Key: level, Available: t.Columns.Names}
	}
	parts, width, err := splitCells(t.Columns.LevelValues(0), sep, opt.Lenient, "level "+level)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		return t.Clone(), nil
	}
	names := opt.LevelNames
	if len(names) == 0 {
		names, _ = DefaultHeaderNames(width, table.Rows)
	} else if len(names) != width {
		return nil, table.Errorf("split level", "got %d level names for %d levels", len(names), width)
	}
	levels := make([][]table.Value, width)
	for k := range levels {
		levels[k] = make([]table.Value, len(parts))
		for c, ps := range parts {
			if k < len(ps) {
				levels[k][c] = ps[k]
			}
		}
	}
	cols, err := table.NewIndex(names, levels)
	if err != nil {
		return nil, err
	}
	return table.NewIndexed(t.Rows, cols, t.Grid())
}
