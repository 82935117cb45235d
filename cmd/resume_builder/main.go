// Package main provides the resume_builder CLI: edit, preview and export a
// resume from the terminal or through the local preview server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/resume-builder/internal/config"
)

var (
	configPath  string
	verbose     bool
	storeDriver string
	storeDSN    string

	// Set by the root command before any subcommand runs.
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Build, preview and export a resume",
	Long: `resume_builder keeps one resume in a local store, lays it out with a gallery of
templates and exports it as HTML, Markdown, LaTeX, plain text or PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		merged := loaded.MergeWithDefaults(config.Default())
		if cmd.Flags().Changed("store-driver") {
			merged.Storage.Driver = storeDriver
		}
		if cmd.Flags().Changed("store-dsn") {
			merged.Storage.DSN = storeDSN
		}
		if verbose {
			merged.Verbose = true
		}
		if err := merged.Validate(); err != nil {
			return err
		}
		cfg = merged

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store-driver", "", "Storage driver: file, sqlite, postgres or memory")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "store-dsn", "", "Storage location: directory, database file or connection URL")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// maxprocs.Set only fails on an invalid GOMAXPROCS, where runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
