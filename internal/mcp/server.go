// ABOUTME: MCP server setup for the lifting log.
// ABOUTME: Wraps MCP server with an upload Repository; every call rebuilds from stored uploads.
package mcp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/merge"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	logger    *log.Logger
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("mcp server needs a repository")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		logger:    logging.Get(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// records rebuilds the canonical set and narrows it to sel.
func (s *Server) records(ctx context.Context, sel models.Selection) ([]models.SetRecord, []string, error) {
	res, err := storage.Rebuild(ctx, s.repo, merge.WithLogger(s.logger))
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild records: %w", err)
	}

	var skipped []string
	for _, f := range res.Failures {
		skipped = append(skipped, f.Error())
	}
	return sel.Apply(res.Records), skipped, nil
}
