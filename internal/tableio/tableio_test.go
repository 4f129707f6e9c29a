package tableio_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/philipnye/ds-utils/internal/reshape"
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/philipnye/ds-utils/internal/tableio"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestReadCSV_SniffsAndParsesBlanks(t *testing.T) {
	p := writeFile(t, "schools.csv", []byte("urn;name;pupils\n100;Oak;\n101;Elm;250;extra\n"))
	tb, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.NumRows() != 3 || tb.NumCols() != 4 {
		t.Fatalf("shape %dx%d, want 3x4", tb.NumRows(), tb.NumCols())
	}
	if got := tb.Cell(0, 1).String(); got != "name" {
		t.Fatalf("header cell = %q", got)
	}
	if !tb.Cell(1, 2).IsMissing() || !tb.Cell(1, 3).IsMissing() {
		t.Fatalf("blank and padded cells should be missing")
	}
	if !tb.Rows.IsPositional() || !tb.Columns.IsPositional() {
		t.Fatalf("raw reads carry positional indexes")
	}
}

func TestReadTSV_ByExtension(t *testing.T) {
	p := writeFile(t, "a.tsv", []byte("x\ty,z\n1\t2,3\n"))
	tb, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.NumCols() != 2 || tb.Cell(1, 1).String() != "2,3" {
		t.Fatalf("got %v", tb.Grid())
	}
}

func TestReadCSV_EncodingFallback(t *testing.T) {
	p := writeFile(t, "cafes.csv", []byte("name\nCaf\xe9\n"))
	tb, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := tb.Cell(1, 0).String(); got != "Café" {
		t.Fatalf("decoded %q, want Café", got)
	}

	opt := tableio.DefaultReadOptions()
	opt.Encodings = []string{"utf-8"}
	if _, err := tableio.ReadFile(p, opt); !table.IsValueError(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}
	opt.Encodings = []string{"klingon"}
	if _, err := tableio.ReadFile(p, opt); !table.IsValueError(err) {
		t.Fatalf("expected unknown encoding error, got %v", err)
	}
}

func TestReadCSV_StripsBOM(t *testing.T) {
	p := writeFile(t, "bom.csv", append([]byte{0xef, 0xbb, 0xbf}, []byte("id\n1\n")...))
	tb, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := tb.Cell(0, 0).String(); got != "id" {
		t.Fatalf("header %q still carries the BOM", got)
	}
}

func TestReadFile_DropEmptyAndMaxRows(t *testing.T) {
	p := writeFile(t, "gaps.csv", []byte("a,b\n,\n1,2\n , \n3,4\n"))
	opt := tableio.DefaultReadOptions()
	opt.DropEmpty = true
	tb, err := tableio.ReadFile(p, opt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", tb.NumRows())
	}
	opt.MaxRows = 2
	tb, err = tableio.ReadFile(p, opt)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if tb.NumRows() != 2 || tb.Cell(1, 0).String() != "1" {
		t.Fatalf("got %v", tb.Grid())
	}
}

func TestReadFile_Unsupported(t *testing.T) {
	p := writeFile(t, "notes.pdf", []byte("%PDF"))
	if _, err := tableio.ReadFile(p, tableio.DefaultReadOptions()); !errors.Is(err, tableio.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func workbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), "Data 2023"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	f.SetCellValue("Data 2023", "A1", "region")
	f.SetCellValue("Data 2023", "B1", "count")
	f.SetCellValue("Data 2023", "A2", "North")
	f.SetCellValue("Data 2023", "B2", 12)
	f.SetCellValue("Data 2023", "A4", "South")
	if _, err := f.NewSheet("Data 2024"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetCellValue("Data 2024", "A1", "later")
	if _, err := f.NewSheet("Notes"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetCellValue("Notes", "A1", "source: survey")
	p := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestReadXLSX_SheetSelection(t *testing.T) {
	p := workbook(t)

	names, err := tableio.ListSheets(p)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Data 2023", "Data 2024", "Notes"}) {
		t.Fatalf("sheets = %v", names)
	}

	tb, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
	if err != nil {
		t.Fatalf("read first sheet: %v", err)
	}
	if tb.NumRows() != 4 || tb.Cell(1, 1).String() != "12" || !tb.Cell(2, 0).IsMissing() {
		t.Fatalf("first sheet = %v", tb.Grid())
	}

	opt := tableio.DefaultReadOptions()
	opt.Sheet = "Notes"
	tb, err = tableio.ReadFile(p, opt)
	if err != nil || tb.Cell(0, 0).String() != "source: survey" {
		t.Fatalf("by name: %v %v", tb, err)
	}

	opt = tableio.DefaultReadOptions()
	opt.SheetIndex = 2
	tb, err = tableio.ReadFile(p, opt)
	if err != nil || tb.Cell(0, 0).String() != "later" {
		t.Fatalf("by index: %v %v", tb, err)
	}

	opt = tableio.DefaultReadOptions()
	opt.SheetRegex = `Data 2024`
	if tb, err = tableio.ReadFile(p, opt); err != nil || tb.Cell(0, 0).String() != "later" {
		t.Fatalf("by pattern: %v %v", tb, err)
	}
	opt.SheetRegex = `Data`
	if _, err := tableio.ReadFile(p, opt); !table.IsValueError(err) {
		t.Fatalf("ambiguous pattern should fail, got %v", err)
	}
	opt.SheetRegex = `2024`
	if _, err := tableio.ReadFile(p, opt); !table.IsNotFound(err) {
		t.Fatalf("pattern is anchored at the start, got %v", err)
	}

	opt = tableio.DefaultReadOptions()
	opt.Sheet = "Missing"
	if _, err := tableio.ReadFile(p, opt); !table.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	opt = tableio.DefaultReadOptions()
	opt.SheetIndex = 9
	if _, err := tableio.ReadFile(p, opt); !table.IsValueError(err) {
		t.Fatalf("expected value error, got %v", err)
	}
}

func TestReadSheets(t *testing.T) {
	p := workbook(t)
	opt := tableio.DefaultReadOptions()
	opt.SheetRegex = `Data \d{4}`
	sheets, err := tableio.ReadSheets(p, opt)
	if err != nil {
		t.Fatalf("read sheets: %v", err)
	}
	if len(sheets) != 2 || sheets[0].Name != "Data 2023" || sheets[1].Name != "Data 2024" {
		t.Fatalf("sheets = %+v", sheets)
	}
}

func TestMatchSheets_Loose(t *testing.T) {
	got, err := tableio.MatchSheets([]string{"Sheet1"}, "Table", true)
	if err != nil || len(got) != 1 {
		t.Fatalf("loose single sheet: %v %v", got, err)
	}
	if _, err := tableio.MatchSheets([]string{"Sheet1"}, "Table", false); !table.IsNotFound(err) {
		t.Fatalf("strict should miss, got %v", err)
	}
	if _, err := tableio.MatchSheets([]string{"a"}, "(", false); !table.IsValueError(err) {
		t.Fatalf("bad pattern should fail, got %v", err)
	}
}

func hierarchical(t *testing.T) *table.Table {
	t.Helper()
	rows, err := table.NewIndex([]string{"region"}, [][]table.Value{table.Strings("N", "S")})
	if err != nil {
		t.Fatal(err)
	}
	cols, err := table.NewIndex([]string{"year", "measure"}, [][]table.Value{
		table.Strings("2023", "2023", "2024"),
		table.Strings("count", "rate", "count"),
	})
	if err != nil {
		t.Fatal(err)
	}
	tb, err := table.NewIndexed(rows, cols, [][]table.Value{
		table.Strings("1", "0.5", "2"),
		{table.String("3"), table.Missing(), table.String("4")},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tb
}

func TestRecords_StacksHeaders(t *testing.T) {
	want := [][]string{
		{"", "2023", "2023", "2024"},
		{"region", "count", "rate", "count"},
		{"N", "1", "0.5", "2"},
		{"S", "3", "", "4"},
	}
	if got := tableio.Records(hierarchical(t)); !reflect.DeepEqual(got, want) {
		t.Fatalf("records = %v", got)
	}

	raw := table.New([][]table.Value{table.Strings("a", "b")})
	if got := tableio.Records(raw); !reflect.DeepEqual(got, [][]string{{"a", "b"}}) {
		t.Fatalf("raw records = %v", got)
	}
}

func TestWriteCSV_Delimiter(t *testing.T) {
	var buf bytes.Buffer
	raw := table.New([][]table.Value{table.Strings("a", "b c")})
	if err := tableio.WriteCSV(&buf, raw, ';'); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "a;b c\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	src := hierarchical(t)
	for _, name := range []string{"out.csv", "out.xlsx"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			if err := tableio.WriteFile(p, src); err != nil {
				t.Fatalf("write: %v", err)
			}
			raw, err := tableio.ReadFile(p, tableio.DefaultReadOptions())
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			got, err := reshape.BuildIndex(raw, 2, 1, reshape.IndexOptions{})
			if err != nil {
				t.Fatalf("build index: %v", err)
			}
			if !reflect.DeepEqual(got.Grid(), src.Grid()) {
				t.Fatalf("cells = %v", got.Grid())
			}
			for i := range src.Columns.Labels {
				if !got.Columns.Labels[i].Equal(src.Columns.Labels[i]) {
					t.Fatalf("column %d = %v", i, got.Columns.Labels[i])
				}
			}
			for i := range src.Rows.Labels {
				if !got.Rows.Labels[i].Equal(src.Rows.Labels[i]) {
					t.Fatalf("row %d = %v", i, got.Rows.Labels[i])
				}
			}
		})
	}
	if err := tableio.WriteFile(filepath.Join(t.TempDir(), "out.json"), src); !errors.Is(err, tableio.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
