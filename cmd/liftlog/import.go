// ABOUTME: CLI commands for storing, listing and removing raw exports.
// ABOUTME: import detects the app from the file's columns and replaces that app's previous export.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/ingest"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var importSource string

var importCmd = &cobra.Command{
	Use:     "import <file>...",
	Aliases: []string{"add"},
	Short:   "Store workout exports",
	Long: `Store one or more workout exports from Hevy, Strong or Jefit.

The app is detected from the file's column names. Each file is fully parsed
before it is stored, so a file with a malformed row is rejected with the
row number and column at fault. Importing a file for an app that already has
an export replaces the old one.

SUPPORTED FILES:

  .csv            Comma-separated export (all three apps)
  .xlsx, .xlsm    Workbook; the first sheet is read

EXAMPLES:

  liftlog import hevy_workouts.csv
  liftlog import strong.csv jefit.csv
  liftlog import export.csv --source strong   # fail unless it is a Strong export`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var declared models.Source
		if importSource != "" {
			src, err := models.ParseSource(importSource)
			if err != nil {
				return err
			}
			declared = src
		}

		reader := ingest.NewReader()
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			name := filepath.Base(path)
			src, records, err := reader.Load(name, bytes.NewReader(content))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if declared != "" && src != declared {
				return fmt.Errorf("%s: expected a %s export but columns match %s", name, declared, src)
			}

			if err := repo.SaveUpload(models.NewUpload(src, name, content)); err != nil {
				return fmt.Errorf("failed to store %s: %w", name, err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Stored %s as %s export (%d sets)\n", name, src, len(records))
		}
		return nil
	},
}

var uploadsCmd = &cobra.Command{
	Use:     "uploads",
	Aliases: []string{"ls"},
	Short:   "List stored exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		uploads, err := repo.ListUploads()
		if err != nil {
			return fmt.Errorf("failed to list uploads: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(uploads) == 0 {
			fmt.Fprintln(out, "No exports stored.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, u := range uploads {
			fmt.Fprintf(out, "%s %s %s %s\n",
				padRight(string(u.Source), 8),
				faint.Sprint(u.UploadedAt.Format("2006-01-02 15:04")),
				padRight(truncate(u.Filename, 40), 40),
				faint.Sprintf("%d bytes", u.Size()))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <source>",
	Aliases: []string{"rm"},
	Short:   "Remove an app's stored export",
	Long: `Remove the stored export for one app (hevy, strong or jefit).

Records from that app disappear from every query until a new export is
imported.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"hevy", "strong", "jefit"},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := models.ParseSource(args[0])
		if err != nil {
			return err
		}

		if err := repo.DeleteUpload(src); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no %s export stored", src)
			}
			return fmt.Errorf("failed to remove: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Removed %s export\n", src)
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Show which app produced an export",
	Long: `Identify the app behind each file from its header and first rows,
without storing anything.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			src, err := ingest.DetectBytes(filepath.Base(path), content)
			if err != nil {
				failed++
				color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, src)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files not recognized", failed, len(args))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importSource, "source", "s", "", "require the file to be this app's export")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(uploadsCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(detectCmd)
}
