// ABOUTME: Root Cobra command for liftlog CLI.
// ABOUTME: Loads config, sets up logging, and manages the upload store via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	repo storage.Repository

	verbose     bool
	filterSince string
	filterUntil string
	filterApps  []string
	jsonOutput  bool
)

// Commands that never touch the upload store.
var skipStorage = map[string]bool{
	"help":       true,
	"version":    true,
	"completion": true,
	"detect":     true,
	"config":     true,
	"show":       true,
	"set":        true,
	"link":       true,
	"unlink":     true,
	"reset":      true,
}

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Unified strength training log across Hevy, Strong and Jefit",
	Long: `Liftlog merges workout exports from Hevy, Strong and Jefit into one
canonical list of sets and answers questions about your training.

HOW IT WORKS:

  Import the CSV (or .xlsx) export from each app. Liftlog keeps the latest
  export per app, detects which app produced it from its columns, and
  rebuilds the merged record set every time you ask a question. Importing a
  newer export simply replaces the old one.

QUICK START:

  $ liftlog import hevy_workouts.csv       # Store a Hevy export
  $ liftlog import strong.csv jefit.csv    # Store more exports
  $ liftlog overview                       # Headline numbers
  $ liftlog top "Barbell Bench Press"      # Best sets by estimated 1RM
  $ liftlog summary                        # Per-exercise stats
  $ liftlog compare                        # Compare the three apps

FILTERS:

  Most analysis commands accept --since, --until (YYYY-MM-DD) and
  --source (hevy, strong, jefit; repeatable or comma-separated).

INTEGRATIONS:

  $ liftlog mcp      # Model Context Protocol server on stdio
  $ liftlog serve    # HTTP JSON API with Prometheus metrics

STORAGE:

  Raw exports live in SQLite at ~/.local/share/liftlog/liftlog.db by default.
  Choose badger or charm with 'liftlog config set backend <name>' or
  LIFTLOG_BACKEND.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if verbose {
			level = "debug"
		}
		if _, err := logging.Init(logging.Options{Level: level, Output: cmd.ErrOrStderr()}); err != nil {
			return err
		}

		if skipStorage[cmd.Name()] {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

// Execute runs the root command. The store is closed even when a command
// fails, since cobra skips PersistentPostRunE on error.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if repo != nil {
		_ = repo.Close()
		repo = nil
	}
	return err
}

// addQueryFlags registers the shared --since/--until/--source/--json flags.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterSince, "since", "", "only include sets on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filterUntil, "until", "", "only include sets on or before this day (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&filterApps, "source", nil, "only include these apps (hevy, strong, jefit)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline diagnostics to stderr")
}
