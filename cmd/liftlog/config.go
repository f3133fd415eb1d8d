// ABOUTME: CLI commands for viewing and changing configuration.
// ABOUTME: Reads and writes the JSON config file; env overrides apply at load time.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/liftlog/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: fmt.Sprintf(`Show or change liftlog configuration.

KEYS:

  backend       sqlite (default), badger or charm
  data_dir      where sqlite and badger keep data (default ~/.local/share/liftlog)
  log_level     debug, info, warn (default) or error
  listen_addr   HTTP listen address for 'liftlog serve' (default %s)
  top_limit     default number of sets for 'liftlog top' (default %d)

Every key can be overridden with an environment variable such as
LIFTLOG_BACKEND or LIFTLOG_DATA_DIR.`, config.DefaultListenAddr, config.DefaultTopLimit),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)

		fmt.Fprintln(out, faint.Sprint("# ", config.GetConfigPath()))
		for _, key := range config.Keys {
			val, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s %s\n", padRight(key, 12), val)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change a configuration value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		fileCfg, err := config.LoadFile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := fileCfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
