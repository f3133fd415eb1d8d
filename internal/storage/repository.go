// ABOUTME: Repository interface for raw upload storage.
// ABOUTME: Each backend keeps the latest export per source and nothing derived.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/liftlog/internal/models"
)

// ErrNotFound is returned when no upload exists for a source.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for raw uploads.
// Computed records are never stored; they are rebuilt from these bytes.
type Repository interface {
	// SaveUpload stores an upload, atomically replacing any previous upload
	// for the same source.
	SaveUpload(u *models.Upload) error
	GetUpload(source models.Source) (*models.Upload, error)
	// ListUploads returns uploads in source order (Hevy, Strong, Jefit).
	ListUploads() ([]*models.Upload, error)
	DeleteUpload(source models.Source) error

	// Lifecycle
	Close() error
}

// EncodeUpload is the value format key-value backends store under UploadKey.
func EncodeUpload(u *models.Upload) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal upload: %w", err)
	}
	return data, nil
}

// DecodeUpload reverses EncodeUpload.
func DecodeUpload(data []byte) (*models.Upload, error) {
	var u models.Upload
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("unmarshal upload: %w", err)
	}
	return &u, nil
}

// SortUploads orders uploads Hevy, Strong, Jefit so rebuilds are deterministic.
func SortUploads(uploads []*models.Upload) {
	sort.SliceStable(uploads, func(i, j int) bool {
		return uploads[i].Source.Rank() < uploads[j].Source.Rank()
	})
}
