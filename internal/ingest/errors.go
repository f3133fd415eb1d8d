// ABOUTME: Error taxonomy for raw source ingestion.
// ABOUTME: FormatDetectionError for unknown headers, MalformedRowError for bad rows.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/liftlog/internal/models"
)

var (
	// ErrUnrecognizedFormat matches every FormatDetectionError via errors.Is.
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	// ErrMalformedRow matches every MalformedRowError via errors.Is.
	ErrMalformedRow = errors.New("malformed row")
)

// FormatDetectionError means no known column signature matched the header.
type FormatDetectionError struct {
	Header []string
}

func (e *FormatDetectionError) Error() string {
	if len(e.Header) == 0 {
		return "unrecognized format: file has no header row"
	}
	return fmt.Sprintf("unrecognized format: no Hevy, Strong or Jefit columns in [%s]",
		strings.Join(e.Header, ", "))
}

func (e *FormatDetectionError) Is(target error) bool {
	return target == ErrUnrecognizedFormat
}

// MalformedRowError reports the first row of a source that could not be read.
// Row is the 1-based data row, not counting the header.
type MalformedRowError struct {
	Source models.Source
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d: column %q value %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Is(target error) bool {
	return target == ErrMalformedRow
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
