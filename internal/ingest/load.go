// ABOUTME: Convenience entry points combining table decoding with reading.
// ABOUTME: Used by the merger and by upload handlers to route raw bytes.
package ingest

import (
	"bytes"
	"io"

	"github.com/harperreed/liftlog/internal/models"
)

// Load decodes and reads one raw export in a single call.
func (r *Reader) Load(filename string, rd io.Reader) (models.Source, []models.SetRecord, error) {
	t, err := ReadTable(filename, rd)
	if err != nil {
		return Unrecognized, nil, err
	}
	return r.Read(t)
}

// DetectBytes decodes raw content just far enough to classify it.
func DetectBytes(filename string, content []byte) (models.Source, error) {
	t, err := ReadTable(filename, bytes.NewReader(content))
	if err != nil {
		return Unrecognized, err
	}
	return DetectSample(t.Sample(SampleSize))
}
