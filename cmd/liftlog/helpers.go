// ABOUTME: Shared helpers for CLI commands.
// ABOUTME: Rebuilds the canonical set with active filters and formats table output.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/merge"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

// loadRecords rebuilds from stored uploads, warns about skipped sources, and
// applies the --since/--until/--source filters.
func loadRecords(cmd *cobra.Command) ([]models.SetRecord, error) {
	sel, err := models.ParseSelection(filterSince, filterUntil, filterApps...)
	if err != nil {
		return nil, err
	}

	res, err := storage.Rebuild(cmd.Context(), repo)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild records: %w", err)
	}
	warnSkipped(cmd, res.Failures)

	return sel.Apply(res.Records), nil
}

func warnSkipped(cmd *cobra.Command, failures []merge.Failure) {
	warn := color.New(color.FgYellow)
	for _, f := range failures {
		warn.Fprintf(cmd.ErrOrStderr(), "⚠ skipped %s: %v\n", f.Name, f.Err)
	}
}

// noData prints the empty-store hint.
func noData(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), "No records found. Import an export with 'liftlog import <file>'.")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// num renders a weight or rep count without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDay(t time.Time) string {
	return t.Format(models.DayLayout)
}
