// ABOUTME: CLI command for moving stored exports between backends.
// ABOUTME: Copies every upload from the configured backend into another one.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/charm"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy stored exports to another backend",
	Long: `Copy every stored export from the configured backend into another one.

Existing exports in the destination are replaced app by app. The source
backend is left untouched, so you can switch back at any time.

USAGE:

  liftlog migrate --to badger --dry-run   # Preview what would be copied
  liftlog migrate --to badger             # Copy
  liftlog config set backend badger       # Start using it

After switching to charm, exports sync to Charm Cloud on each write.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from := cfg.GetBackend()
		if migrateTo == "" {
			return fmt.Errorf("--to is required (sqlite, badger or charm)")
		}
		if migrateTo == from {
			return fmt.Errorf("already using %s backend", from)
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if err := dstCfg.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			uploads, err := repo.ListUploads()
			if err != nil {
				return fmt.Errorf("failed to list uploads: %w", err)
			}
			for _, u := range uploads {
				fmt.Fprintf(out, "  would copy %s export %s (%d bytes)\n", u.Source, u.Filename, u.Size())
			}
			fmt.Fprintf(out, "%d exports from %s to %s\n", len(uploads), from, migrateTo)
			return nil
		}

		if migrateTo == "badger" {
			dir := filepath.Join(dstCfg.GetDataDir(), "badger")
			if nonEmpty, err := storage.IsDirNonEmpty(dir); err == nil && nonEmpty {
				color.New(color.FgYellow).Fprintf(out, "⚠ %s already has data; matching apps will be replaced\n", dir)
			}
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", migrateTo, err)
		}
		defer dst.Close()

		// One sync at the end instead of one per copied export.
		var flush func() error
		if cc, ok := dst.(*charm.Client); ok {
			flush = cc.Batch()
		}

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if flush != nil {
			if err := flush(); err != nil {
				color.New(color.FgYellow).Fprintf(out, "⚠ sync failed: %v\n", err)
			}
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Copied %d exports (%d bytes) from %s to %s\n",
			summary.Uploads, summary.Bytes, from, migrateTo)
		fmt.Fprintf(out, "Run 'liftlog config set backend %s' to switch.\n", migrateTo)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite, badger or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
