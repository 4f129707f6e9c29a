package cmd

import (
	"path/filepath"

	"github.com/philipnye/ds-utils/internal/analysis"
	"github.com/spf13/cobra"
)

type profileFlags struct {
	read  readFlags
	index indexFlags

	output     string
	sampleRows int
	groupBy    []string
	corr       bool
	decimal    string
	thousands  string
	outliers   bool
	outlierThr float64
	noUnits    bool
}

var profFl profileFlags

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Summarize the columns of a table as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &profFl
		opt := analysis.DefaultOptions()
		if f.sampleRows >= 0 {
			opt.SampleRows = f.sampleRows
		}
		var err error
		// Locale separators
		if opt.DecimalSeparator, err = parseRune("decimal", f.decimal, map[string]rune{
			",": ',', "comma": ',', ".": '.', "dot": '.',
		}); err != nil {
			return err
		}
		if opt.ThousandsSeparator, err = parseRune("thousands", f.thousands, map[string]rune{
			",": ',', "comma": ',', ".": '.', "dot": '.', "space": ' ',
		}); err != nil {
			return err
		}
		opt.GroupBy = f.groupBy
		opt.Correlations = f.corr
		opt.Outliers = f.outliers
		if f.outlierThr > 0 {
			opt.OutlierThreshold = f.outlierThr
		}
		opt.UnitNormalize = !f.noUnits

		raw, err := f.read.read(args[0])
		if err != nil {
			return err
		}
		t, err := f.index.apply(raw)
		if err != nil {
			return err
		}
		rep, err := analysis.Describe(t, filepath.Base(args[0]), opt)
		if err != nil {
			return err
		}
		log().Info("profiled table", "file", args[0], "columns", len(rep.Cols), "warnings", len(rep.Warnings))
		return emitText(cmd, rep.Markdown(), f.output)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	f := &profFl
	f.read.register(profileCmd)
	f.index.register(profileCmd)
	profileCmd.Flags().StringVarP(&f.output, "output", "o", "", "optional path to write the profile (Markdown)")
	profileCmd.Flags().IntVar(&f.sampleRows, "sample-rows", 5, "number of sample rows to include")
	profileCmd.Flags().StringSliceVar(&f.groupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	profileCmd.Flags().BoolVar(&f.corr, "correlations", false, "compute Pearson correlations among numeric columns")
	profileCmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	profileCmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	profileCmd.Flags().BoolVar(&f.outliers, "outliers", true, "compute robust outlier counts (MAD)")
	profileCmd.Flags().Float64Var(&f.outlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
	profileCmd.Flags().BoolVar(&f.noUnits, "no-units", false, "do not convert g/L, ug/L and °F columns")
}
