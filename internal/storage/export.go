// ABOUTME: Export of the canonical record set for sharing or backup.
// ABOUTME: Supports JSON, YAML, CSV, and Markdown formats; nothing is written back to storage.
package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is bumped when the export layout changes.
const ExportVersion = "1.0"

// ExportData represents the full export format for canonical records.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Records    []models.SetRecord `json:"records" yaml:"records"`
}

// NewExportData wraps records with export metadata.
func NewExportData(records []models.SetRecord) *ExportData {
	if records == nil {
		records = []models.SetRecord{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "liftlog",
		Records:    records,
	}
}

// ExportJSON exports records as indented JSON.
func ExportJSON(records []models.SetRecord) ([]byte, error) {
	return json.MarshalIndent(NewExportData(records), "", "  ")
}

// ExportYAML exports records as YAML, grouped by source.
func ExportYAML(records []models.SetRecord) ([]byte, error) {
	data := NewExportData(records)

	yamlData := struct {
		Version    string                  `yaml:"version"`
		ExportedAt string                  `yaml:"exported_at"`
		Tool       string                  `yaml:"tool"`
		Sources    map[string][]yamlRecord `yaml:"sources"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Sources:    make(map[string][]yamlRecord),
	}

	for _, r := range data.Records {
		key := r.Source.Key()
		yamlData.Sources[key] = append(yamlData.Sources[key], yamlRecord{
			Date:      r.Date.Format(time.RFC3339),
			Exercise:  r.Exercise,
			Weight:    r.Weight,
			Reps:      r.Reps,
			SetNumber: r.SetNumber,
			OneRM:     round2(r.OneRM),
		})
	}

	return yaml.Marshal(yamlData)
}

type yamlRecord struct {
	Date      string  `yaml:"date"`
	Exercise  string  `yaml:"exercise"`
	Weight    float64 `yaml:"weight"`
	Reps      float64 `yaml:"reps"`
	SetNumber int     `yaml:"set_number"`
	OneRM     float64 `yaml:"one_rm"`
}

// CSVHeader is the column order of ExportCSV.
var CSVHeader = []string{"date", "exercise", "weight", "reps", "set_number", "source", "one_rm"}

// ExportCSV exports records as CSV with the canonical field names as header.
func ExportCSV(records []models.SetRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(time.RFC3339),
			r.Exercise,
			formatFloat(r.Weight),
			formatFloat(r.Reps),
			strconv.Itoa(r.SetNumber),
			string(r.Source),
			formatFloat(round2(r.OneRM)),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportMarkdown renders records as one table per workout day.
func ExportMarkdown(records []models.SetRecord) string {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Lifting Log Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(records) == 0 {
		sb.WriteString("No records.\n")
		return sb.String()
	}

	var current time.Time
	for _, r := range records {
		if day := r.Day(); !day.Equal(current) {
			if !current.IsZero() {
				sb.WriteString("\n")
			}
			current = day
			sb.WriteString(fmt.Sprintf("## %s\n\n", day.Format("2006-01-02")))
			sb.WriteString("| Exercise | Set | Weight (kg) | Reps | 1RM (kg) | App |\n")
			sb.WriteString("|----------|-----|-------------|------|----------|-----|\n")
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %.1f | %s |\n",
			r.Exercise, r.SetNumber, formatFloat(r.Weight), formatFloat(r.Reps), r.OneRM, r.Source))
	}

	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
