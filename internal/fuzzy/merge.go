package fuzzy

import (
	"github.com/philipnye/ds-utils/internal/table"
)

// Suffixes applied to column names present in both merged tables.
const (
	LeftSuffix  = "_df_left"
	RightSuffix = "_df_right"
)

// Merge joins left onto its matches and then onto right: one row per match
// record, carrying the left row's columns, the match string and score, the
// right row id and the right row's columns. Rows keep the left row labels.
// A hierarchical right id takes one df_right_id/<level> column per level.
// Left rows without matches appear with empty right fields only when
// opt.DropNA is false.
func Merge(left, right *table.Table, colLeft, colRight string, opt Options) (*table.Table, error) {
	records, err := Match(left, right, colLeft, colRight, opt)
	if err != nil {
		return nil, err
	}
	leftNames, rightNames := left.ColumnNames(), right.ColumnNames()
	inRight := make(map[string]bool, len(rightNames))
	for _, n := range rightNames {
		inRight[n] = true
	}
	inLeft := make(map[string]bool, len(leftNames))
	for _, n := range leftNames {
		inLeft[n] = true
	}

	var header []string
	for _, n := range leftNames {
		if inRight[n] {
			n += LeftSuffix
		}
		header = append(header, n)
	}
	header = append(header, MatchStringColumn, MatchScoreColumn)
	header = append(header, idNames(RightIDColumn, right.Rows.Names)...)
	for _, n := range rightNames {
		if inLeft[n] {
			n += RightSuffix
		}
		header = append(header, n)
	}

	rows := table.Index{Names: append([]string(nil), left.Rows.Names...)}
	cells := make([][]table.Value, 0, len(records))
	for _, rec := range records {
		row := left.Row(rec.LeftPos)
		row = append(row, rec.String, scoreValue(rec))
		row = append(row, idValues(rec.RightKey, right.Rows.Levels())...)
		if rec.Matched {
			row = append(row, right.Row(rec.RightPos)...)
		} else {
			row = append(row, make([]table.Value, right.NumCols())...)
		}
		cells = append(cells, row)
		rows.Labels = append(rows.Labels, rec.LeftKey.Clone())
	}
	cols := table.Index{Names: []string{""}}
	for _, h := range header {
		cols.Labels = append(cols.Labels, table.Scalar(h))
	}
	return table.NewIndexed(rows, cols, cells)
}
