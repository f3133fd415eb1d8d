// ABOUTME: CLI command for exporting the merged record set.
// ABOUTME: Supports JSON, YAML, CSV, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export merged records",
	Long: `Export the canonical set records in various formats.

FORMATS:

  json       Full JSON export with metadata
  yaml       YAML export grouped by app (human-readable)
  csv        One row per set with the canonical column names
  markdown   One table per workout day (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sets on or after this date (YYYY-MM-DD)
  --until        Only include sets on or before this date (YYYY-MM-DD)
  --source       Only include these apps

EXAMPLES:

  liftlog export json                        # Export all sets as JSON
  liftlog export csv -o sets.csv             # Save to file
  liftlog export yaml --source hevy          # Hevy sets as YAML
  liftlog export markdown --since 2024-01-01 # Sets from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "csv", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		switch format {
		case "json", "yaml", "csv", "markdown", "md":
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, csv, or markdown)", format)
		}

		records, err := loadRecords(cmd)
		if err != nil {
			return err
		}

		var data []byte
		switch format {
		case "json":
			data, err = storage.ExportJSON(records)
		case "yaml":
			data, err = storage.ExportYAML(records)
		case "csv":
			data, err = storage.ExportCSV(records)
		default:
			data = []byte(storage.ExportMarkdown(records))
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Exported %d records to %s\n", len(records), exportOutput)
			return nil
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	addQueryFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
