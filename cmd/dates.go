package cmd

import (
	"fmt"
	"strconv"

	"github.com/philipnye/ds-utils/internal/dates"
	"github.com/spf13/cobra"
)

var (
	edLayout       string
	edFinancialSep string
	edAcademicSep  string

	fySep     string
	fyMonth   string
	fyReverse bool
)

var enddateCmd = &cobra.Command{
	Use:   "enddate <period>...",
	Short: "Print the last day of each period string",
	Long: `Resolve periods such as "2021", "2021/22", "2021-22 Q3", "Jan 21 - Mar 21"
or "2021-22 Autumn" to the date they end on. The layout is predicted for bare
and split years; pass --layout for anything else (strftime style, with %Q for
a quarter and %T for a school term).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range args {
			end, err := dates.EndDate(s, edLayout, edFinancialSep, edAcademicSep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s, end.Format("2006-01-02"))
		}
		return nil
	},
}

var fyCmd = &cobra.Command{
	Use:   "fy <year>",
	Short: "Convert between calendar and financial years",
	Long: `With no flags, rewrite a calendar year as the financial year ending in it
("2023" becomes "2022/23"). --month gives the financial year containing that
month of the year instead; --reverse returns the first calendar year of a
split year.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out string
		var err error
		switch {
		case fyReverse:
			out, err = dates.FinancialYearToYear(args[0])
		case fyMonth != "":
			out, err = financialYearOf(args[0], fyMonth)
		default:
			out, err = dates.YearToFinancialYear(args[0], fySep)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// financialYearOf accepts a month number or an English month name.
func financialYearOf(year, month string) (string, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return "", fmt.Errorf("invalid year %q", year)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		if m, err = dates.MonthNumber(month); err != nil {
			return "", err
		}
	}
	return dates.FinancialYear(y, m)
}

func init() {
	rootCmd.AddCommand(enddateCmd)
	enddateCmd.Flags().StringVar(&edLayout, "layout", "", "period layout, e.g. '%Y-%y %Q' (predicted if omitted)")
	enddateCmd.Flags().StringVar(&edFinancialSep, "financial-sep", "/", "separator marking a financial split year")
	enddateCmd.Flags().StringVar(&edAcademicSep, "academic-sep", "-", "separator marking an academic split year")

	rootCmd.AddCommand(fyCmd)
	fyCmd.Flags().StringVar(&fySep, "sep", "/", "separator for the financial year")
	fyCmd.Flags().StringVar(&fyMonth, "month", "", "month (1-12 or name) within the year")
	fyCmd.Flags().BoolVar(&fyReverse, "reverse", false, "convert a financial year back to its first calendar year")
}
