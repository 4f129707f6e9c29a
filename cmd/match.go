package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/philipnye/ds-utils/internal/fuzzy"
	"github.com/philipnye/ds-utils/internal/names"
	"github.com/philipnye/ds-utils/internal/table"
	"github.com/spf13/cobra"
)

// matchFlags are shared by match and merge.
type matchFlags struct {
	read  readFlags
	index indexFlags

	output      string
	leftCol     string
	rightCol    string
	cutoff      float64
	limit       int
	scorer      string
	noClean     bool
	keepNA      bool
	stripTitles bool
	keepPeerage bool
	foldAccents bool
}

func (f *matchFlags) register(cmd *cobra.Command) {
	f.read.register(cmd)
	f.index.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the table here (.csv, .tsv or .xlsx) instead of stdout")
	cmd.Flags().StringVar(&f.leftCol, "left-col", "", "column of the left table to match on")
	cmd.Flags().StringVar(&f.rightCol, "right-col", "", "column of the right table to match against")
	cmd.Flags().Float64Var(&f.cutoff, "cutoff", 90, "minimum score (0-100) for a match (default from config)")
	cmd.Flags().IntVar(&f.limit, "limit", 1, "maximum matches per left row (default from config)")
	cmd.Flags().StringVar(&f.scorer, "scorer", "wratio", "scorer: "+strings.Join(scorerNames(), "|"))
	cmd.Flags().BoolVar(&f.noClean, "no-clean", false, "score raw strings instead of lowercased alphanumerics")
	cmd.Flags().BoolVar(&f.keepNA, "keep-na", false, "keep left rows without a match")
	cmd.Flags().BoolVar(&f.stripTitles, "strip-titles", false, "remove honorifics and peerage titles before scoring names")
	cmd.Flags().BoolVar(&f.keepPeerage, "keep-peerage", false, "with --strip-titles, keep peerage titles")
	cmd.Flags().BoolVar(&f.foldAccents, "fold-accents", false, "strip accents before scoring, so café matches cafe")
	_ = cmd.MarkFlagRequired("left-col")
	_ = cmd.MarkFlagRequired("right-col")
}

// options merges config defaults with the flags the user set.
func (f *matchFlags) options(cmd *cobra.Command) (fuzzy.Options, error) {
	opt := fuzzy.DefaultOptions()
	if cfg != nil {
		opt.ScoreCutoff = cfg.ScoreCutoff
		opt.Limit = cfg.MatchLimit
		opt.CleanStrings = cfg.CleanStrings
		opt.DropNA = cfg.DropNA
	}
	if cmd.Flags().Changed("cutoff") {
		opt.ScoreCutoff = f.cutoff
	}
	if cmd.Flags().Changed("limit") {
		opt.Limit = f.limit
	}
	if f.noClean {
		opt.CleanStrings = false
	}
	if f.keepNA {
		opt.DropNA = false
	}
	s, ok := fuzzy.Scorers[strings.ToLower(f.scorer)]
	if !ok {
		return opt, fmt.Errorf("unknown --scorer: %s (use %s)", f.scorer, strings.Join(scorerNames(), ", "))
	}
	opt.Scorer = s
	if f.stripTitles || f.foldAccents {
		strip, keep := f.stripTitles, f.keepPeerage
		clean := fuzzy.DefaultProcess
		if f.foldAccents {
			clean = fuzzy.FoldProcess
		}
		opt.CleanStrings = true
		opt.Processor = func(name string) string {
			if strip {
				name = names.StripTitle(name, keep)
			}
			return clean(name)
		}
	}
	return opt, nil
}

// load reads and indexes the left and right files.
func (f *matchFlags) load(leftPath, rightPath string) (*table.Table, *table.Table, error) {
	var out [2]*table.Table
	for i, p := range []string{leftPath, rightPath} {
		raw, err := f.read.read(p)
		if err != nil {
			return nil, nil, err
		}
		if out[i], err = f.index.apply(raw); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return out[0], out[1], nil
}

func scorerNames() []string {
	out := make([]string, 0, len(fuzzy.Scorers))
	for k := range fuzzy.Scorers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var matchFl matchFlags

var matchCmd = &cobra.Command{
	Use:   "match <left> <right>",
	Short: "List the best fuzzy matches of one column against another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &matchFl
		opt, err := f.options(cmd)
		if err != nil {
			return err
		}
		left, right, err := f.load(args[0], args[1])
		if err != nil {
			return err
		}
		records, err := fuzzy.Match(left, right, f.leftCol, f.rightCol, opt)
		if err != nil {
			return err
		}
		log().Info("fuzzy match", "left_rows", left.NumRows(), "right_rows", right.NumRows(),
			"records", len(records), "cutoff", opt.ScoreCutoff, "limit", opt.Limit)
		return emit(cmd, fuzzy.RecordsTable(records), f.output)
	},
}

var mergeFl matchFlags

var mergeCmd = &cobra.Command{
	Use:   "merge <left> <right>",
	Short: "Join two tables on fuzzily matching columns",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &mergeFl
		opt, err := f.options(cmd)
		if err != nil {
			return err
		}
		left, right, err := f.load(args[0], args[1])
		if err != nil {
			return err
		}
		out, err := fuzzy.Merge(left, right, f.leftCol, f.rightCol, opt)
		if err != nil {
			return err
		}
		log().Info("fuzzy merge", "left_rows", left.NumRows(), "right_rows", right.NumRows(), "rows", out.NumRows())
		return emit(cmd, out, f.output)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchFl.register(matchCmd)
	rootCmd.AddCommand(mergeCmd)
	mergeFl.register(mergeCmd)
}
