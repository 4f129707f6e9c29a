package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipnye/ds-utils/internal/reshape"
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/spf13/cobra"
)

type normalizeFlags struct {
	read  readFlags
	index indexFlags

	output     string
	caseMode   string
	caseAxis   string
	positions  []int
	except     []string
	expectRows string
	splitLevel string
	levelSep   string
	levelNames []string
}

var normFlags normalizeFlags

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Turn a raw spreadsheet extract into an indexed table",
	Long: `Read a CSV/TSV/XLSX file, build row and column indexes from its header
rows and label columns, optionally fill blank headers, split a delimited
header level and change the case of selected rows or columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &normFlags
		raw, err := f.read.read(args[0])
		if err != nil {
			return err
		}
		t, err := f.index.apply(raw)
		if err != nil {
			return err
		}
		if f.splitLevel != "" {
			t, err = reshape.SplitLevelBySep(t, f.splitLevel, f.levelSep, reshape.LevelSplitOptions{LevelNames: f.levelNames})
			if err != nil {
				return err
			}
		}
		if f.caseMode != "" {
			mode, err := table.ParseCase(f.caseMode)
			if err != nil {
				return err
			}
			axis, err := table.ParseAxis(f.caseAxis)
			if err != nil {
				return err
			}
			if err := table.ChangeCaseInPlace(t, f.positions, mode, axis, f.except); err != nil {
				return err
			}
		}
		if f.expectRows != "" {
			lo, hi, err := parseRange(f.expectRows)
			if err != nil {
				return err
			}
			ok, err := table.CheckCount(t, lo, hi, table.Rows)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("row count %d outside expected range [%d, %d]", t.NumRows(), lo, hi)
			}
		}
		return emit(cmd, t, f.output)
	},
}

// parseRange reads "MIN:MAX".
func parseRange(s string) (int, int, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q (use MIN:MAX)", s)
	}
	lo, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range minimum: %w", err)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range maximum: %w", err)
	}
	return lo, hi, nil
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	f := &normFlags
	f.read.register(normalizeCmd)
	f.index.register(normalizeCmd)
	normalizeCmd.Flags().StringVarP(&f.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	normalizeCmd.Flags().StringVar(&f.caseMode, "case", "", "change case: lower|upper|title|sentence")
	normalizeCmd.Flags().StringVar(&f.caseAxis, "case-axis", "columns", "whether --case-positions are rows or columns")
	normalizeCmd.Flags().IntSliceVar(&f.positions, "case-positions", nil, "0-based data rows or columns to change case")
	normalizeCmd.Flags().StringSliceVar(&f.except, "except", nil, "words that keep their spelling when changing case")
	normalizeCmd.Flags().StringVar(&f.expectRows, "expect-rows", "", "fail unless the data row count lies in MIN:MAX")
	normalizeCmd.Flags().StringVar(&f.splitLevel, "split-level", "", "name of a single column level whose labels split on --level-sep")
	normalizeCmd.Flags().StringVar(&f.levelSep, "level-sep", " - ", "separator for --split-level")
	normalizeCmd.Flags().StringSliceVar(&f.levelNames, "level-names", nil, "names for the levels produced by --split-level")
}
