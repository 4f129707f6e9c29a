package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/philipnye/ds-utils/internal/config"
	"github.com/philipnye/ds-utils/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dsutils configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "score_cutoff: %g\n", cfg.ScoreCutoff)
		fmt.Fprintf(out, "match_limit: %d\n", cfg.MatchLimit)
		fmt.Fprintf(out, "clean_strings: %t\n", cfg.CleanStrings)
		fmt.Fprintf(out, "drop_na: %t\n", cfg.DropNA)
		fmt.Fprintf(out, "encodings: %s\n", strings.Join(cfg.Encodings, ","))
		if cfg.SheetRegex != "" {
			fmt.Fprintf(out, "sheet_regex: %s\n", cfg.SheetRegex)
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if cfg.LogFile != "" {
			fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		}
		if cfg.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "score_cutoff":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 100 {
				return fmt.Errorf("invalid float for score_cutoff: %v (use 0-100)", val)
			}
			cfg.ScoreCutoff = f
		case "match_limit":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for match_limit: %v", val)
			}
			cfg.MatchLimit = i
		case "clean_strings", "drop_na":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			if key == "clean_strings" {
				cfg.CleanStrings = b
			} else {
				cfg.DropNA = b
			}
		case "encodings":
			cfg.Encodings = splitList(val)
		case "sheet_regex":
			cfg.SheetRegex = val
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "log_file":
			cfg.LogFile = val
		case "output_dir":
			cfg.OutputDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
