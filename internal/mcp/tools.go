// ABOUTME: MCP tool implementations for the lifting log.
// ABOUTME: Exposes the aggregation queries, format detection, and stored uploads.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/liftlog/internal/analysis"
	"github.com/harperreed/liftlog/internal/ingest"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultTopLimit = 10
	dateLayout      = "2006-01-02"
)

func (s *Server) registerTools() {
	// top_sets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "top_sets",
		Description: "Best sets for an exercise ranked by estimated one-rep max (Epley)",
	}, s.handleTopSets)

	// exercise_summary
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "exercise_summary",
		Description: "Per-exercise max and average weight, reps and 1RM, strongest first",
	}, s.handleExerciseSummary)

	// source_comparison
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "source_comparison",
		Description: "Compare sets, volume, best 1RM and workout days across Hevy, Strong and Jefit",
	}, s.handleSourceComparison)

	// overview
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "overview",
		Description: "Headline training numbers: workouts, exercises, sets per workout, date range",
	}, s.handleOverview)

	// progression
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "progression",
		Description: "Daily best weight and 1RM for one exercise over time",
	}, s.handleProgression)

	// detect_format
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "detect_format",
		Description: "Identify which app (Hevy, Strong, Jefit) produced a CSV export",
	}, s.handleDetectFormat)

	// list_uploads
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_uploads",
		Description: "List the raw exports currently stored, one per app",
	}, s.handleListUploads)
}

// Tool input/output types

type filterInput struct {
	Since  string `json:"since,omitempty" jsonschema:"Only include sets on or after this day (YYYY-MM-DD)"`
	Until  string `json:"until,omitempty" jsonschema:"Only include sets on or before this day (YYYY-MM-DD)"`
	Source string `json:"source,omitempty" jsonschema:"Comma-separated apps to include (hevy, strong, jefit)"`
}

func (f filterInput) selection() (models.Selection, error) {
	return models.ParseSelection(f.Since, f.Until, f.Source)
}

type topSetsInput struct {
	Exercise string `json:"exercise" jsonschema:"Canonical exercise name, e.g. Barbell Bench Press"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 10)"`
	Since    string `json:"since,omitempty" jsonschema:"Only include sets on or after this day (YYYY-MM-DD)"`
	Until    string `json:"until,omitempty" jsonschema:"Only include sets on or before this day (YYYY-MM-DD)"`
	Source   string `json:"source,omitempty" jsonschema:"Comma-separated apps to include (hevy, strong, jefit)"`
}

type topSetRow struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Reps   float64 `json:"reps"`
	OneRM  float64 `json:"one_rm"`
	Source string  `json:"source"`
}

type topSetsOutput struct {
	Exercise string      `json:"exercise"`
	Sets     []topSetRow `json:"sets"`
	Skipped  []string    `json:"skipped,omitempty"`
	Message  string      `json:"message"`
}

type exerciseSummaryOutput struct {
	Exercises []models.ExerciseStats `json:"exercises"`
	Skipped   []string               `json:"skipped,omitempty"`
}

type sourceComparisonOutput struct {
	Sources []models.SourceStats `json:"sources"`
	Skipped []string             `json:"skipped,omitempty"`
}

type overviewOutput struct {
	TotalWorkouts     int      `json:"total_workouts"`
	UniqueExercises   int      `json:"unique_exercises"`
	AvgSetsPerWorkout float64  `json:"avg_sets_per_workout"`
	TotalWorkoutDays  int      `json:"total_workout_days"`
	FirstDay          string   `json:"first_day,omitempty"`
	LastDay           string   `json:"last_day,omitempty"`
	Skipped           []string `json:"skipped,omitempty"`
}

type progressionInput struct {
	Exercise string `json:"exercise" jsonschema:"Canonical exercise name"`
	Since    string `json:"since,omitempty" jsonschema:"Only include sets on or after this day (YYYY-MM-DD)"`
	Until    string `json:"until,omitempty" jsonschema:"Only include sets on or before this day (YYYY-MM-DD)"`
}

type progressionRow struct {
	Date      string  `json:"date"`
	MaxWeight float64 `json:"max_weight"`
	MaxOneRM  float64 `json:"max_one_rm"`
}

type progressionOutput struct {
	Exercise string           `json:"exercise"`
	Points   []progressionRow `json:"points"`
	Skipped  []string         `json:"skipped,omitempty"`
}

type detectFormatInput struct {
	Content  string `json:"content" jsonschema:"Raw CSV text; the header row and a few data rows are enough"`
	Filename string `json:"filename,omitempty" jsonschema:"Original file name, used to pick the decoder"`
}

type detectFormatOutput struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

type listUploadsInput struct{}

type uploadRow struct {
	Source     string `json:"source"`
	Filename   string `json:"filename"`
	Size       int    `json:"size"`
	UploadedAt string `json:"uploaded_at"`
}

type listUploadsOutput struct {
	Uploads []uploadRow `json:"uploads"`
	Message string      `json:"message"`
}

// Tool handlers

func (s *Server) handleTopSets(ctx context.Context, req *mcp.CallToolRequest, input topSetsInput) (*mcp.CallToolResult, topSetsOutput, error) {
	if input.Exercise == "" {
		return nil, topSetsOutput{}, fmt.Errorf("exercise is required")
	}
	if input.Limit <= 0 {
		input.Limit = defaultTopLimit
	}

	sel, err := filterInput{Since: input.Since, Until: input.Until, Source: input.Source}.selection()
	if err != nil {
		return nil, topSetsOutput{}, err
	}
	records, skipped, err := s.records(ctx, sel)
	if err != nil {
		return nil, topSetsOutput{}, err
	}

	top := analysis.TopSets(records, input.Exercise, input.Limit)
	rows := make([]topSetRow, 0, len(top))
	for _, ts := range top {
		rows = append(rows, topSetRow{
			Date:   ts.Date.Format(dateLayout),
			Weight: ts.Weight,
			Reps:   ts.Reps,
			OneRM:  ts.OneRM,
			Source: string(ts.Source),
		})
	}

	msg := fmt.Sprintf("%d top sets for %s", len(rows), input.Exercise)
	if len(rows) == 0 {
		msg = fmt.Sprintf("No sets found for %s.", input.Exercise)
	}
	return nil, topSetsOutput{Exercise: input.Exercise, Sets: rows, Skipped: skipped, Message: msg}, nil
}

func (s *Server) handleExerciseSummary(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, exerciseSummaryOutput, error) {
	sel, err := input.selection()
	if err != nil {
		return nil, exerciseSummaryOutput{}, err
	}
	records, skipped, err := s.records(ctx, sel)
	if err != nil {
		return nil, exerciseSummaryOutput{}, err
	}
	return nil, exerciseSummaryOutput{Exercises: analysis.ExerciseSummary(records), Skipped: skipped}, nil
}

func (s *Server) handleSourceComparison(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, sourceComparisonOutput, error) {
	sel, err := input.selection()
	if err != nil {
		return nil, sourceComparisonOutput{}, err
	}
	records, skipped, err := s.records(ctx, sel)
	if err != nil {
		return nil, sourceComparisonOutput{}, err
	}
	return nil, sourceComparisonOutput{Sources: analysis.SourceComparison(records), Skipped: skipped}, nil
}

func (s *Server) handleOverview(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, overviewOutput, error) {
	sel, err := input.selection()
	if err != nil {
		return nil, overviewOutput{}, err
	}
	records, skipped, err := s.records(ctx, sel)
	if err != nil {
		return nil, overviewOutput{}, err
	}

	ov := analysis.Overview(records)
	return nil, overviewOutput{
		TotalWorkouts:     ov.TotalWorkouts,
		UniqueExercises:   ov.UniqueExercises,
		AvgSetsPerWorkout: ov.AvgSetsPerWorkout,
		TotalWorkoutDays:  ov.TotalWorkoutDays,
		FirstDay:          formatDay(ov.FirstDay),
		LastDay:           formatDay(ov.LastDay),
		Skipped:           skipped,
	}, nil
}

func (s *Server) handleProgression(ctx context.Context, req *mcp.CallToolRequest, input progressionInput) (*mcp.CallToolResult, progressionOutput, error) {
	if input.Exercise == "" {
		return nil, progressionOutput{}, fmt.Errorf("exercise is required")
	}

	sel, err := models.ParseSelection(input.Since, input.Until)
	if err != nil {
		return nil, progressionOutput{}, err
	}
	records, skipped, err := s.records(ctx, sel)
	if err != nil {
		return nil, progressionOutput{}, err
	}

	points := analysis.Progression(records, input.Exercise)
	rows := make([]progressionRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, progressionRow{Date: p.Date.Format(dateLayout), MaxWeight: p.MaxWeight, MaxOneRM: p.MaxOneRM})
	}
	return nil, progressionOutput{Exercise: input.Exercise, Points: rows, Skipped: skipped}, nil
}

func (s *Server) handleDetectFormat(ctx context.Context, req *mcp.CallToolRequest, input detectFormatInput) (*mcp.CallToolResult, detectFormatOutput, error) {
	name := input.Filename
	if name == "" {
		name = "upload.csv"
	}

	src, err := ingest.DetectBytes(name, []byte(input.Content))
	if err != nil {
		return nil, detectFormatOutput{}, fmt.Errorf("detect format: %w", err)
	}
	return nil, detectFormatOutput{
		Source:  string(src),
		Message: fmt.Sprintf("%s looks like a %s export", name, src),
	}, nil
}

func (s *Server) handleListUploads(ctx context.Context, req *mcp.CallToolRequest, input listUploadsInput) (*mcp.CallToolResult, listUploadsOutput, error) {
	uploads, err := s.repo.ListUploads()
	if err != nil {
		return nil, listUploadsOutput{}, fmt.Errorf("failed to list uploads: %w", err)
	}

	rows := make([]uploadRow, 0, len(uploads))
	for _, u := range uploads {
		rows = append(rows, uploadRow{
			Source:     string(u.Source),
			Filename:   u.Filename,
			Size:       u.Size(),
			UploadedAt: u.UploadedAt.Format(time.RFC3339),
		})
	}

	msg := fmt.Sprintf("%d uploads stored", len(rows))
	if len(rows) == 0 {
		msg = "No uploads stored. Import an export with `liftlog import <file>`."
	}
	return nil, listUploadsOutput{Uploads: rows, Message: msg}, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
