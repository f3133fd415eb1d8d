// ABOUTME: Data migration between upload storage backends.
// ABOUTME: Copies every stored upload from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Uploads int
	Bytes   int
}

// MigrateData copies all uploads from src to dst. Uploads already present in
// dst for the same source are replaced.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	uploads, err := src.ListUploads()
	if err != nil {
		return nil, fmt.Errorf("list source uploads: %w", err)
	}

	for _, u := range uploads {
		if err := dst.SaveUpload(u); err != nil {
			return nil, fmt.Errorf("save upload %s: %w", u.Source, err)
		}
		summary.Uploads++
		summary.Bytes += u.Size()
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
