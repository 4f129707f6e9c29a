package tableio

import (
	"fmt"
	"regexp"

	"github.com/xuri/excelize/v2"

	"github.com/philipnye/ds-utils/internal/table"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(path string) bool {
	return hasExt(path, ".xlsx", ".xlsm")
}

func (xlsxReader) Read(path string, opt ReadOptions) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt)
	if err != nil {
		return nil, err
	}
	return readSheet(f, sheet)
}

// Sheet is one worksheet read from a workbook.
type Sheet struct {
	Name  string
	Table *table.Table
}

// ListSheets returns the worksheet names in workbook order.
func ListSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheets reads every worksheet selected by opt.SheetRegex, or every
// worksheet when it is empty.
func ReadSheets(path string, opt ReadOptions) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if opt.SheetRegex != "" {
		if names, err = MatchSheets(names, opt.SheetRegex, opt.LooseSheet); err != nil {
			return nil, err
		}
	}
	out := make([]Sheet, 0, len(names))
	for _, name := range names {
		t, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Sheet{Name: name, Table: finish(t, opt)})
	}
	return out, nil
}

// MatchSheets filters names by a pattern anchored at the start of the name.
// When loose is set and there is a single sheet, it is returned regardless.
func MatchSheets(names []string, pattern string, loose bool) ([]string, error) {
	if loose && len(names) == 1 {
		return names, nil
	}
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, table.Errorf("sheet", "bad sheet pattern %q: %v", pattern, err)
	}
	var out []string
	for _, n := range names {
		if re.MatchString(n) {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, &table.NotFoundError{Op: "sheet", What: fmt.Sprintf("sheet matching %q", pattern)}
	}
	return out, nil
}

func pickSheet(names []string, opt ReadOptions) (string, error) {
	switch {
	case opt.Sheet != "":
		for _, n := range names {
			if n == opt.Sheet {
				return n, nil
			}
		}
		return "", &table.NotFoundError{Op: "sheet", What: fmt.Sprintf("sheet %q", opt.Sheet)}
	case opt.SheetRegex != "":
		matched, err := MatchSheets(names, opt.SheetRegex, opt.LooseSheet)
		if err != nil {
			return "", err
		}
		if len(matched) > 1 {
			return "", table.Errorf("sheet", "pattern %q matches %d sheets %v, use ReadSheets", opt.SheetRegex, len(matched), matched)
		}
		return matched[0], nil
	}
	idx := opt.SheetIndex
	if idx == 0 {
		idx = 1
	}
	if idx < 1 || idx > len(names) {
		return "", table.Errorf("sheet", "sheet index %d outside 1..%d", idx, len(names))
	}
	return names[idx-1], nil
}

func readSheet(f *excelize.File, sheet string) (*table.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	grid := make([][]table.Value, len(rows))
	for i, r := range rows {
		grid[i] = parseRow(r)
	}
	return table.New(grid), nil
}
