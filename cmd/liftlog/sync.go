// ABOUTME: CLI commands for Charm Cloud sync of stored exports.
// ABOUTME: link/unlink wrap the charm CLI; status and reset report what each app contributes.
package main

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/charm"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var syncYes bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync stored exports across devices via Charm Cloud",
	Long: `Sync stored exports across devices via Charm Cloud.

Sync runs when the charm backend is active. Exports are encrypted with your
SSH key before they leave the machine, and every import or remove pushes the
change.

GETTING STARTED:

  liftlog config set backend charm
  liftlog migrate --to charm      # optional: bring your sqlite exports along
  liftlog sync link               # on every device, same Charm account
  liftlog sync status

COMMANDS:

  link      Link this device to your Charm account
  unlink    Disconnect this device from Charm
  status    Show backend, account and per-app export state
  reset     Drop local charm data and restore exports from the cloud`,
}

// runCharm runs the charm CLI attached to the command's streams.
func runCharm(cmd *cobra.Command, args ...string) error {
	c := exec.CommandContext(cmd.Context(), "charm", args...)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

// printStoreReport shows one line per app: the stored file and how many sets
// it contributes, or why the rebuild skipped it.
func printStoreReport(cmd *cobra.Command, r storage.Repository) error {
	uploads, err := r.ListUploads()
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}
	res, err := storage.Rebuild(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("failed to rebuild records: %w", err)
	}

	stored := make(map[models.Source]*models.Upload, len(uploads))
	for _, u := range uploads {
		stored[u.Source] = u
	}
	sets := make(map[models.Source]int)
	for _, rec := range res.Records {
		sets[rec.Source]++
	}
	failed := make(map[models.Source]error)
	for _, f := range res.Failures {
		failed[f.Source] = f.Err
	}

	out := cmd.OutOrStdout()
	faint := color.New(color.Faint)
	warn := color.New(color.FgYellow)
	for _, src := range models.AllSources {
		name := padRight(string(src), 8)
		u, ok := stored[src]
		if !ok {
			fmt.Fprintf(out, "  %s %s\n", name, faint.Sprint("not stored"))
			continue
		}
		fmt.Fprintf(out, "  %s %s %s ", name, padRight(truncate(u.Filename, 32), 32),
			faint.Sprint(u.UploadedAt.Format("2006-01-02 15:04")))
		if err, bad := failed[src]; bad {
			warn.Fprintf(out, "skipped: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%d sets\n", sets[src])
	}
	fmt.Fprintf(out, "Total: %d sets from %d exports\n", len(res.Records), len(uploads))
	return nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil && err != io.EOF {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

A new account is created from your SSH key if you don't have one. Linking a
second device pulls the exports already stored on the first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure the charm CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "✓ Device linked to Charm")

		if cfg.GetBackend() != "charm" {
			fmt.Fprintln(out, "Run 'liftlog config set backend charm' to start syncing exports.")
			return nil
		}
		c, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm storage: %w", err)
		}
		defer c.Close()
		if err := c.Sync(); err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ initial sync failed: %v\n", err)
		}
		return printStoreReport(cmd, c)
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect this device from Charm",
	Long: `Disconnect this device from Charm. Exports already stored locally stay
readable; you can link again later with 'liftlog sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Device unlinked from Charm")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend, account and per-app export state",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend: %s\n", cfg.GetBackend())

		if c, ok := repo.(*charm.Client); ok {
			if id, err := c.ID(); err != nil {
				color.New(color.FgYellow).Fprintln(out, "Charm: not linked (run 'liftlog sync link')")
			} else {
				fmt.Fprintf(out, "Charm: %s on %s\n", id, charm.Host)
			}
			if c.IsReadOnly() {
				color.New(color.FgYellow).Fprintln(out, "Read-only: another liftlog process holds the database lock")
			}
		} else {
			fmt.Fprintln(out, "Sync: off (run 'liftlog config set backend charm' to sync via Charm Cloud)")
		}

		return printStoreReport(cmd, repo)
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore exports from Charm Cloud",
	Long: `Drop the local charm database and restore every export from Charm Cloud,
then show what each app contributes after the restore.

Use this when a device disagrees with the others. Exports that were only
stored on this device and never synced are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backend := cfg.GetBackend(); backend != "charm" {
			return fmt.Errorf("sync reset needs the charm backend (using %s)", backend)
		}
		if !syncYes && !confirm(cmd, "Replace local exports with the copies in Charm Cloud?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		c, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm storage: %w", err)
		}
		defer c.Close()

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Restored from Charm Cloud")
		return printStoreReport(cmd, c)
	},
}

func init() {
	syncResetCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "skip the confirmation prompt")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
