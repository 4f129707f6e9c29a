package reshape

import (
	"github.com/philipnye/ds-utils/internal/table"
)

// FillHeaders returns a copy of t with its first headerCount header levels
// forward-filled. With axis Rows the levels are the leading rows, filled left
// to right; with axis Columns they are the leading columns, filled top to
// bottom. Level 0 fills from the nearest preceding value. Deeper levels fill
// only from preceding positions that share the same value one level up;
// positions whose parent is missing are left as they are.
func FillHeaders(t *table.Table, axis table.Axis, headerCount int) (*table.Table, error) {
	out := t.Clone()
	if err := FillHeadersInPlace(out, axis, headerCount); err != nil {
		return nil, err
	}
	return out, nil
}

// FillHeadersInPlace is FillHeaders mutating t.
func FillHeadersInPlace(t *table.Table, axis table.Axis, headerCount int) error {
	if err := axis.Validate(); err != nil {
		return err
	}
	avail := t.NumRows()
	if axis == table.Columns {
		avail = t.NumCols()
	}
	if err := checkHeaderCount(headerCount, avail, axis); err != nil {
		return err
	}
	levels := make([][]table.Value, headerCount)
	for l := range levels {
		if axis == table.Rows {
			levels[l] = t.Row(l)
		} else {
			levels[l] = t.Column(l)
		}
	}
	fillLevels(levels)
	for l, vals := range levels {
		for p, v := range vals {
			if axis == table.Rows {
				t.SetCell(l, p, v)
			} else {
				t.SetCell(p, l, v)
			}
		}
	}
	return nil
}

// FillIndexLevels applies the FillHeaders rule to the first levelCount
// levels of the row (axis Rows) or column (axis Columns) index of an
// already indexed table.
func FillIndexLevels(t *table.Table, axis table.Axis, levelCount int) (*table.Table, error) {
	if err := axis.Validate(); err != nil {
		return nil, err
	}
	out := t.Clone()
	ix := &out.Rows
	if axis == table.Columns {
		ix = &out.Columns
	}
	if err := checkHeaderCount(levelCount, ix.Levels(), axis); err != nil {
		return nil, err
	}
	levels := make([][]table.Value, levelCount)
	for l := range levels {
		levels[l] = ix.LevelValues(l)
	}
	fillLevels(levels)
	for l, vals := range levels {
		for p, v := range vals {
			ix.Labels[p][l] = v
		}
	}
	return out, nil
}

func checkHeaderCount(n, avail int, axis table.Axis) error {
	if n <= 0 {
		return table.Errorf("fill headers", "header count must be > 0, got %d", n)
	}
	if n > avail {
		return table.Errorf("fill headers", "header count %d exceeds the %d available header %ss", n, avail, singular(axis))
	}
	return nil
}

// fillLevels forward-fills levels[l][p] in place, level by level.
func fillLevels(levels [][]table.Value) {
	if len(levels) == 0 {
		return
	}
	var last table.Value
	for p, v := range levels[0] {
		if v.IsMissing() {
			levels[0][p] = last
			continue
		}
		last = v
	}
	for l := 1; l < len(levels); l++ {
		byParent := map[string]table.Value{}
		for p, v := range levels[l] {
			parent := levels[l-1][p]
			if parent.IsMissing() {
				continue
			}
			key := parent.String()
			if v.IsMissing() {
				if prev, ok := byParent[key]; ok {
					levels[l][p] = prev
				}
				continue
			}
			byParent[key] = v
		}
	}
}
