// ABOUTME: CLI command for the HTTP JSON API.
// ABOUTME: Serves queries, uploads and Prometheus metrics until interrupted.
package main

import (
	"github.com/harperreed/liftlog/internal/api"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the merged record set and the stored exports over HTTP.

ENDPOINTS:

  GET    /api/records               Merged set records
  GET    /api/top-sets?exercise=    Best sets by estimated 1RM (&limit=)
  GET    /api/exercises             Per-exercise statistics
  GET    /api/sources               Per-app comparison
  GET    /api/overview              Headline numbers
  GET    /api/progression?exercise= Daily best weight and 1RM
  GET    /api/uploads               Stored exports
  POST   /api/uploads               Multipart "file" (optional "source")
  DELETE /api/uploads/{source}      Remove an app's export
  GET    /metrics                   Prometheus metrics
  GET    /healthz                   Liveness

Read endpoints accept since, until and source query parameters.

The listen address defaults to 127.0.0.1:8080 and can be set with --addr,
'liftlog config set listen_addr', or LIFTLOG_LISTEN_ADDR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetListenAddr()
		}

		server, err := api.NewServer(repo,
			api.WithLogger(logging.Get()),
			api.WithTopLimit(cfg.GetTopLimit()),
		)
		if err != nil {
			return err
		}

		cmd.Printf("Listening on http://%s\n", addr)
		return server.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
