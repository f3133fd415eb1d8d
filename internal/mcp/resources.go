// ABOUTME: MCP resource implementations for the lifting log.
// ABOUTME: Provides liftlog://records and liftlog://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/liftlog/internal/analysis"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recordsURI = "liftlog://records"
	summaryURI = "liftlog://summary"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recordsURI,
		Name:        "Canonical Set Records",
		Description: "Every set from all stored exports, merged and sorted by date",
		MIMEType:    "application/json",
	}, s.handleRecordsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Training Summary",
		Description: "Overview, per-app comparison and most logged exercises",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleRecordsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, skipped, err := s.records(ctx, models.Selection{})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.SetRecord{}
	}

	result := map[string]any{
		"count":   len(records),
		"records": records,
	}
	if len(skipped) > 0 {
		result["skipped"] = skipped
	}
	return jsonResource(recordsURI, result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	records, skipped, err := s.records(ctx, models.Selection{})
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"generated_at":  time.Now().Format(time.RFC3339),
		"overview":      analysis.Overview(records),
		"sources":       analysis.SourceComparison(records),
		"top_exercises": analysis.TopExercises(records, 5),
	}
	if len(skipped) > 0 {
		result["skipped"] = skipped
	}
	return jsonResource(summaryURI, result)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
