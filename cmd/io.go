package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/philipnye/ds-utils/internal/reshape"
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/philipnye/ds-utils/internal/tableio"
	"github.com/philipnye/ds-utils/internal/utils"
	"github.com/spf13/cobra"
)

// readFlags are the input options shared by every table command.
type readFlags struct {
	sheet       string
	sheetIndex  int
	sheetRegex  string
	looseSheet  bool
	encodings   []string
	delimiter   string
	dropEmpty   bool
	maxRows     int
	datestamped bool
}

func (f *readFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if no sheet name or regex)")
	cmd.Flags().StringVar(&f.sheetRegex, "sheet-regex", "", "XLSX: pattern matched against the start of sheet names (overrides config)")
	cmd.Flags().BoolVar(&f.looseSheet, "loose-sheet", false, "XLSX: read a single-sheet workbook even when --sheet-regex misses")
	cmd.Flags().StringSliceVar(&f.encodings, "encoding", nil, "text encodings to try in order (overrides config)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (sniffed if omitted)")
	cmd.Flags().BoolVar(&f.dropEmpty, "drop-empty", false, "drop rows whose cells are all blank")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	cmd.Flags().BoolVar(&f.datestamped, "datestamped", false, "treat the path as a stem and read the latest YYYY-MM-DD stamped file beside it")
}

func (f *readFlags) options() (tableio.ReadOptions, error) {
	opt := tableio.DefaultReadOptions()
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "|":
		opt.Delimiter = '|'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	if len(f.encodings) > 0 {
		opt.Encodings = f.encodings
	} else if cfg != nil && len(cfg.Encodings) > 0 {
		opt.Encodings = cfg.Encodings
	}
	opt.Sheet = f.sheet
	opt.SheetRegex = f.sheetRegex
	if opt.SheetRegex == "" && opt.Sheet == "" && cfg != nil {
		opt.SheetRegex = cfg.SheetRegex
	}
	opt.LooseSheet = f.looseSheet
	opt.SheetIndex = f.sheetIndex
	opt.DropEmpty = f.dropEmpty
	opt.MaxRows = f.maxRows
	return opt, nil
}

// resolve maps path to the file actually read.
func (f *readFlags) resolve(path string) (string, error) {
	if !f.datestamped {
		return path, nil
	}
	found, err := utils.FindDatestamped(filepath.Dir(path), filepath.Base(path), utils.Latest)
	if err != nil {
		return "", err
	}
	log().Debug("resolved datestamped file", "stem", path, "file", found[0])
	return found[0], nil
}

// read loads path as a raw positional table.
func (f *readFlags) read(path string) (*table.Table, error) {
	opt, err := f.options()
	if err != nil {
		return nil, err
	}
	path, err = f.resolve(path)
	if err != nil {
		return nil, err
	}
	t, err := tableio.ReadFile(path, opt)
	if err != nil {
		return nil, err
	}
	log().Info("read table", "file", path, "rows", t.NumRows(), "cols", t.NumCols())
	return t, nil
}

// indexFlags describe where the headers of a raw table end.
type indexFlags struct {
	headerRows  int
	headerCols  int
	fillHeaders bool
	// columnLevels names the column hierarchy, one per header row.
	columnLevels []string
	// rowLevels names the row hierarchy, one per header column.
	rowLevels []string
}

func (f *indexFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.headerRows, "header-rows", 1, "rows holding column headers (-1 = up to the first numeric row)")
	cmd.Flags().IntVar(&f.headerCols, "header-cols", 0, "leading columns holding row labels")
	cmd.Flags().BoolVar(&f.fillHeaders, "fill-headers", false, "forward-fill blank header cells within their parent")
	cmd.Flags().StringSliceVar(&f.columnLevels, "column-levels", nil, "names for the column levels (default row_0..)")
	cmd.Flags().StringSliceVar(&f.rowLevels, "row-levels", nil, "names for the row levels (default column_0..)")
}

// apply turns a raw table into an indexed one.
func (f *indexFlags) apply(raw *table.Table) (*table.Table, error) {
	rows := f.headerRows
	if rows < 0 {
		n, err := detectHeaderRows(raw, f.headerCols)
		if err != nil {
			return nil, err
		}
		rows = n
		log().Debug("detected header rows", "header_rows", rows)
	}
	t, err := reshape.BuildIndex(raw, rows, f.headerCols, reshape.IndexOptions{
		RowLevelNames:    f.columnLevels,
		ColumnLevelNames: f.rowLevels,
	})
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if !f.fillHeaders {
		return t, nil
	}
	if rows > 0 {
		if t, err = reshape.FillIndexLevels(t, table.Columns, rows); err != nil {
			return nil, err
		}
	}
	if f.headerCols > 0 {
		if t, err = reshape.FillIndexLevels(t, table.Rows, f.headerCols); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// detectHeaderRows returns the ordinal of the first row with a numeric
// cell among the data columns, or 1 when no row has one.
func detectHeaderRows(raw *table.Table, headerCols int) (int, error) {
	if headerCols > raw.NumCols() {
		return 0, table.Errorf("build index", "%d header columns exceed %d columns", headerCols, raw.NumCols())
	}
	data, err := raw.Sub(0, raw.NumRows(), headerCols, raw.NumCols())
	if err != nil {
		return 0, err
	}
	n, err := reshape.FirstNumeric(data, table.Rows)
	if table.IsNotFound(err) {
		return 1, nil
	}
	return n, err
}

// emit writes t to output, or as CSV to the command's stdout.
func emit(cmd *cobra.Command, t *table.Table, output string) error {
	if output == "" {
		return tableio.WriteCSV(cmd.OutOrStdout(), t, ',')
	}
	path, err := outputPath(output)
	if err != nil {
		return err
	}
	if err := tableio.WriteFile(path, t); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log().Info("wrote table", "file", path, "rows", t.NumRows(), "cols", t.NumCols())
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", t.NumRows(), path)
	return nil
}

// emitText writes s to output, or to the command's stdout.
func emitText(cmd *cobra.Command, s, output string) error {
	if output == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), s)
		return err
	}
	path, err := outputPath(output)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, []byte(s)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

// outputPath places relative paths under the configured output directory
// and creates the parent directory.
func outputPath(p string) (string, error) {
	if cfg != nil && cfg.OutputDir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(cfg.OutputDir, p)
	}
	if err := utils.EnsureDir(filepath.Dir(p)); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return p, nil
}

// parseRune reads a one-character flag such as --decimal.
func parseRune(flag, s string, named map[string]rune) (rune, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	if r, ok := named[s]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unsupported --%s: %s", flag, s)
}
