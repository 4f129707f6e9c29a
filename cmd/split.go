package cmd

import (
	"strings"

	"github.com/philipnye/ds-utils/internal/reshape"
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/spf13/cobra"
)

// catchAll marks the bucket receiving every value the others leave behind.
const catchAll = "*"

type splitColumnFlags struct {
	read  readFlags
	index indexFlags

	output    string
	column    string
	buckets   []string
	names     []string
	missing   []string
	fillNamed bool
	by        string
	sep       string
}

var splitColFlags splitColumnFlags

var splitColumnCmd = &cobra.Command{
	Use:   "split-column <file>",
	Short: "Spread the values of one column, or row level, over several columns",
	Long: `Each --bucket lists the comma separated values that move into one new
column; a bucket of "*" takes everything else. Named buckets hold parent
headings and, with --fill-named, carry down to the rows below them.

Example:
  dsutils split-column report.xlsx --header-cols 1 --column column_0 \
    --bucket "North,South" --bucket "*" --names region,area --fill-named`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &splitColFlags
		by, err := reshape.ParseSplitBy(f.by)
		if err != nil {
			return err
		}
		opt := reshape.SplitOptions{By: by, Sep: f.sep}
		for _, b := range f.buckets {
			if strings.TrimSpace(b) == catchAll {
				opt.Buckets = append(opt.Buckets, reshape.Bucket{CatchAll: true})
				continue
			}
			opt.Buckets = append(opt.Buckets, reshape.Bucket{Values: splitList(b)})
		}
		opt.ColumnNames = f.names
		opt.FillNamed = f.fillNamed
		for _, m := range f.missing {
			opt.MissingValues = append(opt.MissingValues, table.Parse(m))
		}

		raw, err := f.read.read(args[0])
		if err != nil {
			return err
		}
		t, err := f.index.apply(raw)
		if err != nil {
			return err
		}
		out, err := reshape.SplitColumn(t, f.column, opt)
		if err != nil {
			return err
		}
		log().Info("split column", "column", f.column, "buckets", len(opt.Buckets))
		return emit(cmd, out, f.output)
	},
}

type splitRowFlags struct {
	read  readFlags
	index indexFlags

	output  string
	row     int
	sep     string
	names   []string
	lenient bool
}

var splitRFlags splitRowFlags

var splitRowCmd = &cobra.Command{
	Use:   "split-row <file>",
	Short: "Split every cell of a data row on a separator into several rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &splitRFlags
		raw, err := f.read.read(args[0])
		if err != nil {
			return err
		}
		t, err := f.index.apply(raw)
		if err != nil {
			return err
		}
		out, err := reshape.SplitRowBySep(t, f.row, f.sep, reshape.RowSplitOptions{RowNames: f.names, Lenient: f.lenient})
		if err != nil {
			return err
		}
		log().Info("split row", "row", f.row, "rows_added", out.NumRows()-t.NumRows())
		return emit(cmd, out, f.output)
	},
}

// splitList splits a comma separated flag value, trimming each item.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(splitColumnCmd)
	f := &splitColFlags
	f.read.register(splitColumnCmd)
	f.index.register(splitColumnCmd)
	splitColumnCmd.Flags().StringVarP(&f.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	splitColumnCmd.Flags().StringVar(&f.column, "column", "", "column label or row level name to split")
	splitColumnCmd.Flags().StringArrayVar(&f.buckets, "bucket", nil, "comma separated values for one new column, or \"*\" (repeatable)")
	splitColumnCmd.Flags().StringSliceVar(&f.names, "names", nil, "names for the new columns (default column_0..)")
	splitColumnCmd.Flags().StringArrayVar(&f.missing, "missing", nil, "replacement for gaps, one per bucket; empty keeps them blank (repeatable)")
	splitColumnCmd.Flags().BoolVar(&f.fillNamed, "fill-named", false, "forward-fill the named buckets instead of the catch-all")
	splitColumnCmd.Flags().StringVar(&f.by, "by", "values", "split mode: values|sep")
	splitColumnCmd.Flags().StringVar(&f.sep, "sep", "", "separator when --by sep")
	_ = splitColumnCmd.MarkFlagRequired("column")

	rootCmd.AddCommand(splitRowCmd)
	r := &splitRFlags
	r.read.register(splitRowCmd)
	r.index.register(splitRowCmd)
	splitRowCmd.Flags().StringVarP(&r.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	splitRowCmd.Flags().IntVar(&r.row, "row", 0, "0-based data row to split")
	splitRowCmd.Flags().StringVar(&r.sep, "sep", "", "separator to split cells on")
	splitRowCmd.Flags().StringSliceVar(&r.names, "names", nil, "labels for the new rows (default row_0..)")
	splitRowCmd.Flags().BoolVar(&r.lenient, "lenient", false, "allow cells without the separator")
	_ = splitRowCmd.MarkFlagRequired("sep")
}
