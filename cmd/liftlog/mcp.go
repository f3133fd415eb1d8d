// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"github.com/harperreed/liftlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to query your training history through
a standardized protocol. The server communicates via stdin/stdout; logs go
to stderr.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "liftlog": {
        "command": "liftlog",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  top_sets            Best sets for an exercise by estimated 1RM
  exercise_summary    Per-exercise max/avg weight, reps and 1RM
  source_comparison   Sets, volume, 1RM and workout days per app
  overview            Headline numbers and date range
  progression         Daily best weight and 1RM for an exercise
  detect_format       Identify the app behind CSV text
  list_uploads        Stored exports

AVAILABLE RESOURCES:

  liftlog://records   Every merged set record
  liftlog://summary   Overview, app comparison and top exercises`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
