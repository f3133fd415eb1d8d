// ABOUTME: Rebuild turns the currently available raw exports into a canonical record set.
// ABOUTME: A failing source is reported and skipped; the others still merge.
package merge

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/liftlog/internal/ingest"
	"github.com/harperreed/liftlog/internal/logging"
	"github.com/harperreed/liftlog/internal/models"
)

// RawSource is one raw export. Source is optional; when set, the detected
// format must agree with it.
type RawSource struct {
	Name    string
	Source  models.Source
	Content []byte
}

// Failure records a source that could not be loaded.
type Failure struct {
	Name   string        `json:"name"`
	Source models.Source `json:"source,omitempty"`
	Err    error         `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Name, f.Err)
}

// Result is the outcome of a rebuild.
type Result struct {
	Records   []models.SetRecord
	PerSource map[models.Source]int
	Failures  []Failure
}

// Loaded reports whether any source contributed records.
func (r *Result) Loaded() bool {
	return len(r.Records) > 0
}

type rebuilder struct {
	reader *ingest.Reader
	logger *log.Logger
}

// Option configures Rebuild.
type Option func(*rebuilder)

// WithReader overrides the ingest reader (e.g. custom name rules).
func WithReader(r *ingest.Reader) Option {
	return func(b *rebuilder) {
		b.reader = r
	}
}

// WithLogger overrides the logger used for per-source diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(b *rebuilder) {
		b.logger = l
	}
}

// Rebuild loads every raw source and merges what loaded. It holds no state
// between calls, so identical inputs always produce identical output. The
// only error returned is ctx cancellation; per-source problems land in
// Result.Failures.
func Rebuild(ctx context.Context, sources []RawSource, opts ...Option) (*Result, error) {
	b := &rebuilder{reader: ingest.NewReader(), logger: logging.Get()}
	for _, opt := range opts {
		opt(b)
	}

	result := &Result{PerSource: make(map[models.Source]int)}
	batches := make([][]models.SetRecord, 0, len(sources))

	for _, raw := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := b.load(raw)
		if err != nil {
			result.Failures = append(result.Failures, Failure{Name: raw.Name, Source: raw.Source, Err: err})
			b.logger.Warn("source skipped", "name", raw.Name, "source", raw.Source, "err", err)
			continue
		}
		if len(records) == 0 {
			b.logger.Debug("source empty", "name", raw.Name)
			continue
		}

		src := records[0].Source
		result.PerSource[src] += len(records)
		batches = append(batches, records)
		b.logger.Info("source loaded", "name", raw.Name, "source", src, "rows", len(records))
	}

	result.Records = Merge(batches...)
	b.logger.Debug("rebuild complete", "records", len(result.Records), "failures", len(result.Failures))
	return result, nil
}

func (b *rebuilder) load(raw RawSource) ([]models.SetRecord, error) {
	if len(bytes.TrimSpace(raw.Content)) == 0 {
		return nil, nil
	}

	t, err := ingest.ReadTable(raw.Name, bytes.NewReader(raw.Content))
	if err != nil {
		return nil, err
	}
	if len(t.Header) == 0 {
		return nil, nil
	}

	src, records, err := b.reader.Read(t)
	if err != nil {
		return nil, err
	}
	if raw.Source != "" && src != raw.Source {
		return nil, fmt.Errorf("stored as %s but columns match %s", raw.Source, src)
	}
	return records, nil
}
