// ABOUTME: Upload model for raw export files kept by the storage layer.
// ABOUTME: One upload per source; a newer upload replaces the older one.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload is the latest raw export stored for a source.
type Upload struct {
	ID         uuid.UUID `json:"id"`
	Source     Source    `json:"source"`
	Filename   string    `json:"filename"`
	Content    []byte    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewUpload creates an Upload with a generated UUID and current timestamp.
func NewUpload(source Source, filename string, content []byte) *Upload {
	return &Upload{
		ID:         uuid.New(),
		Source:     source,
		Filename:   filename,
		Content:    content,
		UploadedAt: time.Now(),
	}
}

// WithUploadedAt sets a custom upload timestamp.
func (u *Upload) WithUploadedAt(t time.Time) *Upload {
	u.UploadedAt = t
	return u
}

// Size returns the raw content length in bytes.
func (u *Upload) Size() int {
	return len(u.Content)
}
