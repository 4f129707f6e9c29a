package cmd

import (
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/spf13/cobra"
)

type nullsFlags struct {
	read  readFlags
	index indexFlags

	output    string
	groupBy   []string
	transpose bool
	percent   bool
	format    string
}

var nullsFl nullsFlags

var nullsCmd = &cobra.Command{
	Use:   "nulls <file>",
	Short: "Count blank cells per column, optionally per group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &nullsFl
		raw, err := f.read.read(args[0])
		if err != nil {
			return err
		}
		t, err := f.index.apply(raw)
		if err != nil {
			return err
		}
		out, err := table.CountNulls(t, table.NullOptions{
			GroupBy:   f.groupBy,
			Transpose: f.transpose,
			Percent:   f.percent,
			Format:    f.format,
		})
		if err != nil {
			return err
		}
		return emit(cmd, out, f.output)
	},
}

type diffFlags struct {
	read  readFlags
	index indexFlags

	output          string
	keep            string
	on              []string
	indicatorValues []string
	keepIndicator   bool
}

var diffFl diffFlags

var diffCmd = &cobra.Command{
	Use:   "diff <first> <second>",
	Short: "List rows found in only one of two tables",
	Long: `Compare two tables on the --on columns (default: every shared column)
and print the rows present on only one side. --keep selects first, second
or both sides; --keep-indicator adds a _merge column naming the side.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &diffFl
		keep, err := table.ParseKeep(f.keep)
		if err != nil {
			return err
		}
		var tables [2]*table.Table
		for i, p := range args {
			raw, err := f.read.read(p)
			if err != nil {
				return err
			}
			if tables[i], err = f.index.apply(raw); err != nil {
				return err
			}
		}
		out, err := table.RowDifferences(tables[0], tables[1], table.DiffOptions{
			Keep:            keep,
			On:              f.on,
			IndicatorValues: f.indicatorValues,
			KeepIndicator:   f.keepIndicator,
		})
		if err != nil {
			return err
		}
		log().Info("row differences", "keep", f.keep, "rows", out.NumRows())
		return emit(cmd, out, f.output)
	},
}

func init() {
	rootCmd.AddCommand(nullsCmd)
	n := &nullsFl
	n.read.register(nullsCmd)
	n.index.register(nullsCmd)
	nullsCmd.Flags().StringVarP(&n.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	nullsCmd.Flags().StringSliceVar(&n.groupBy, "group-by", nil, "columns whose values partition the rows")
	nullsCmd.Flags().BoolVar(&n.transpose, "transpose", false, "put source columns on the rows of the result")
	nullsCmd.Flags().BoolVar(&n.percent, "percent", false, "report the blank fraction instead of the count")
	nullsCmd.Flags().StringVar(&n.format, "format", "", "fmt verb for every result, e.g. %.1f")

	rootCmd.AddCommand(diffCmd)
	d := &diffFl
	d.read.register(diffCmd)
	d.index.register(diffCmd)
	diffCmd.Flags().StringVarP(&d.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	diffCmd.Flags().StringVar(&d.keep, "keep", "second", "side to keep: first|second|both")
	diffCmd.Flags().StringSliceVar(&d.on, "on", nil, "columns to compare on (default: all shared)")
	diffCmd.Flags().StringSliceVar(&d.indicatorValues, "indicator-values", nil, "two labels replacing left_only,right_only")
	diffCmd.Flags().BoolVar(&d.keepIndicator, "keep-indicator", false, "retain the _merge column")
}
