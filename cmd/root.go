package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/philipnye/ds-utils/internal/config"
	"github.com/philipnye/ds-utils/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	debug        bool
	flagLogFile  string
	flagLogLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Run logger, rebuilt on every invocation
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dsutils",
	Short: "dsutils: reshape messy spreadsheets and fuzzy-match tables",
	Long: `dsutils turns irregular spreadsheet extracts into tidy indexed tables,
splits and fills hierarchical headers, profiles columns, and joins tables on
approximately matching strings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log().Debug("done", "command", cmd.CommandPath())
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log().Error("command failed", "err", err)
	}
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dsutils/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append logs to this file instead of stderr (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		d := cfgpkg.Defaults()
		c = &d
	}
	cfg = c

	opt := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}
	if flagLogLevel != "" {
		opt.Level = flagLogLevel
	}
	if debug {
		opt.Level = "debug"
	}
	if flagLogFile != "" {
		opt.File = flagLogFile
	}
	_ = logger.Close()
	l, err := logging.New(opt, rootCmd.ErrOrStderr())
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; logging to stderr\n", err)
		l, _ = logging.New(logging.Options{}, rootCmd.ErrOrStderr())
	}
	logger = l
	logger.Debug("config loaded", "config", cfgFile)
}

// log returns the run logger, or the slog default before initialization.
func log() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger.Logger
}
