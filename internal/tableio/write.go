package tableio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/philipnye/ds-utils/internal/table"
	"github.com/philipnye/ds-utils/internal/utils"
)

// Records lays t out as plain text rows. Each column level becomes a header
// row and each row level a leading column; the last header row carries the
// row level names. Positional indexes are omitted, so a raw table writes
// back exactly as read.
func Records(t *table.Table) [][]string {
	rowLevels := 0
	if !t.Rows.IsPositional() {
		rowLevels = t.Rows.Levels()
	}
	var out [][]string
	if !t.Columns.IsPositional() {
		levels := t.Columns.Levels()
		for l := 0; l < levels; l++ {
			rec := make([]string, rowLevels, rowLevels+t.NumCols())
			if l == levels-1 {
				copy(rec, t.Rows.Names)
			}
			for _, lab := range t.Columns.Labels {
				rec = append(rec, lab[l].String())
			}
			out = append(out, rec)
		}
	}
	for r := 0; r < t.NumRows(); r++ {
		rec := make([]string, 0, rowLevels+t.NumCols())
		if rowLevels > 0 {
			for _, v := range t.Rows.Labels[r] {
				rec = append(rec, v.String())
			}
		}
		for _, v := range t.Row(r) {
			rec = append(rec, v.String())
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes t to w using delim, or a comma when delim is zero.
func WriteCSV(w io.Writer, t *table.Table, delim rune) error {
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.WriteAll(Records(t)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes t to a new workbook holding a single sheet.
func WriteXLSX(path string, t *table.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, rec := range Records(t) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = s
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// WriteFile writes t in the format named by the extension of path.
func WriteFile(path string, t *table.Table) error {
	switch {
	case hasExt(path, ".xlsx", ".xlsm"):
		return WriteXLSX(path, t, "")
	case hasExt(path, ".csv", ".txt"):
		var buf bytes.Buffer
		if err := WriteCSV(&buf, t, ','); err != nil {
			return err
		}
		return utils.SafeWriteFile(path, buf.Bytes())
	case hasExt(path, ".tsv"):
		var buf bytes.Buffer
		if err := WriteCSV(&buf, t, '\t'); err != nil {
			return err
		}
		return utils.SafeWriteFile(path, buf.Bytes())
	}
	return fmt.Errorf("%s: %w", path, ErrUnsupported)
}
