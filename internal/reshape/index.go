package reshape

import (
	"fmt"

	"github.com/philipnye/ds-utils/internal/table"
)

// IndexOptions names the levels produced by BuildIndex.
type IndexOptions struct {
	// RowLevelNames names the column hierarchy, one per header row.
	RowLevelNames []string
	// ColumnLevelNames names the row hierarchy, one per header column.
	ColumnLevelNames []string
}

// DefaultHeaderNames returns row_0..row_{n-1} for axis Rows and
// column_0..column_{n-1} for axis Columns.
func DefaultHeaderNames(count int, axis table.Axis) ([]string, error) {
	if err := axis.Validate(); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, table.Errorf("header names", "count must be >= 0, got %d", count)
	}
	prefix := "row"
	if axis == table.Columns {
		prefix = "column"
	}
	out := make([]string, count)
	for i := range out {
		out[i] = fmt.Sprintf("%s_%d", prefix, i)
	}
	return out, nil
}

// BuildIndex partitions t into quadrants around headerRows and headerCols.
// The top-right block becomes the column hierarchy (one level per header
// row), the bottom-left block the row hierarchy (one level per header
// column) and the bottom-right block the data. The top-left block and any
// existing indexes are discarded. A zero count yields a positional index on
// that axis.
func BuildIndex(t *table.Table, headerRows, headerCols int, opt IndexOptions) (*table.Table, error) {
	if headerRows < 0 || headerCols < 0 {
		return nil, table.Errorf("build index", "header counts must be >= 0, got %d rows and %d columns", headerRows, headerCols)
	}
	if headerRows > t.NumRows() || headerCols > t.NumCols() {
		return nil, table.Errorf("build index", "%d header rows and %d header columns exceed a %dx%d table",
			headerRows, headerCols, t.NumRows(), t.NumCols())
	}
	rowNames, err := levelNames(opt.RowLevelNames, headerRows, table.Rows)
	if err != nil {
		return nil, err
	}
	colNames, err := levelNames(opt.ColumnLevelNames, headerCols, table.Columns)
	if err != nil {
		return nil, err
	}

	dataRows := t.NumRows() - headerRows
	dataCols := t.NumCols() - headerCols

	columns := table.Positional(dataCols)
	if headerRows > 0 {
		levels := make([][]table.Value, headerRows)
		for r := 0; r < headerRows; r++ {
			levels[r] = t.Row(r)[headerCols:]
		}
		if columns, err = table.NewIndex(rowNames, levels); err != nil {
			return nil, err
		}
	}
	rows := table.Positional(dataRows)
	if headerCols > 0 {
		levels := make([][]table.Value, headerCols)
		for c := 0; c < headerCols; c++ {
			levels[c] = t.Column(c)[headerRows:]
		}
		if rows, err = table.NewIndex(colNames, levels); err != nil {
			return nil, err
		}
	}

	cells := make([][]table.Value, dataRows)
	for r := range cells {
		cells[r] = t.Row(headerRows + r)[headerCols:]
	}
	return table.NewIndexed(rows, columns, cells)
}

func levelNames(given []string, count int, axis table.Axis) ([]string, error) {
	if len(given) == 0 {
		return DefaultHeaderNames(count, axis)
	}
	if len(given) != count {
		return nil, table.Errorf("build index", "got %d %s level names for %d header %ss", len(given), axis, count, singular(axis))
	}
	return append([]string(nil), given...), nil
}
