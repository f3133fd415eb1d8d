// ABOUTME: Declarative format table mapping column signatures to source readers.
// ABOUTME: Detection walks the table first-match-wins and never guesses.
package ingest

import (
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/normalize"
)

// Unrecognized is the source returned alongside a FormatDetectionError.
const Unrecognized models.Source = ""

// SampleSize is the number of data rows handed to detection callers.
const SampleSize = 5

// RowMapper turns one data row into zero or more canonical records.
// The returned records carry no OneRM; the merger derives it.
type RowMapper func(rc rowContext) ([]models.SetRecord, error)

// Format describes one vendor export: the columns that identify it and how
// its rows map onto the canonical schema.
type Format struct {
	Source   models.Source
	Required []string
	Map      RowMapper
}

// Formats is evaluated in order; adding a vendor means adding an entry.
var Formats = []Format{
	{Source: models.SourceHevy, Required: []string{"exercise_title"}, Map: mapHevy},
	{Source: models.SourceStrong, Required: []string{"Exercise Name"}, Map: mapStrong},
	{Source: models.SourceJefit, Required: []string{"ename", "logs"}, Map: mapJefit},
}

func (f Format) matches(t *Table) bool {
	for _, col := range f.Required {
		if !t.Has(col) {
			return false
		}
	}
	return true
}

// Detect classifies an export by its header row.
func Detect(header []string) (models.Source, error) {
	f, err := lookup(NewTable(header, nil))
	if err != nil {
		return Unrecognized, err
	}
	return f.Source, nil
}

// DetectSample classifies a sample whose first row is the header.
func DetectSample(sample [][]string) (models.Source, error) {
	if len(sample) == 0 {
		return Unrecognized, &FormatDetectionError{}
	}
	return Detect(sample[0])
}

// DetectTable classifies a decoded table.
func DetectTable(t *Table) (models.Source, error) {
	f, err := lookup(t)
	if err != nil {
		return Unrecognized, err
	}
	return f.Source, nil
}

// FormatFor returns the table entry for a source.
func FormatFor(source models.Source) (Format, bool) {
	for _, f := range Formats {
		if f.Source == source {
			return f, true
		}
	}
	return Format{}, false
}

func lookup(t *Table) (Format, error) {
	for _, f := range Formats {
		if f.matches(t) {
			return f, nil
		}
	}
	return Format{}, &FormatDetectionError{Header: t.Header}
}

// Reader maps detected tables onto canonical records.
type Reader struct {
	normalizer *normalize.Normalizer
}

// Option configures a Reader.
type Option func(*Reader)

// WithNormalizer swaps the exercise name rule table.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(r *Reader) {
		r.normalizer = n
	}
}

// NewReader creates a Reader using the default name rules unless overridden.
func NewReader(opts ...Option) *Reader {
	r := &Reader{normalizer: normalize.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read detects the table's source and maps every row. The first bad row
// aborts the whole table with a MalformedRowError.
func (r *Reader) Read(t *Table) (models.Source, []models.SetRecord, error) {
	f, err := lookup(t)
	if err != nil {
		return Unrecognized, nil, err
	}
	records, err := r.ReadAs(f, t)
	return f.Source, records, err
}

// ReadAs maps a table with a known format, skipping detection.
func (r *Reader) ReadAs(f Format, t *Table) ([]models.SetRecord, error) {
	records := make([]models.SetRecord, 0, t.Len())
	for i, row := range t.Rows {
		rc := rowContext{table: t, row: row, num: i + 1, source: f.Source, normalizer: r.normalizer}
		mapped, err := f.Map(rc)
		if err != nil {
			return nil, err
		}
		for _, rec := range mapped {
			if err := rec.Validate(); err != nil {
				return nil, rc.fail("", "", err)
			}
		}
		records = append(records, mapped...)
	}
	return records, nil
}
