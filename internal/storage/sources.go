// ABOUTME: Bridges stored uploads into the rebuild pipeline.
// ABOUTME: Loads raw sources from any Repository and rebuilds the canonical set.
package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/merge"
)

// RawSources converts every stored upload into a rebuild input.
func RawSources(repo Repository) ([]merge.RawSource, error) {
	uploads, err := repo.ListUploads()
	if err != nil {
		return nil, err
	}

	sources := make([]merge.RawSource, 0, len(uploads))
	for _, u := range uploads {
		sources = append(sources, merge.RawSource{
			Name:    u.Filename,
			Source:  u.Source,
			Content: u.Content,
		})
	}
	return sources, nil
}

// Rebuild recomputes the canonical record set from whatever is stored now.
func Rebuild(ctx context.Context, repo Repository, opts ...merge.Option) (*merge.Result, error) {
	sources, err := RawSources(repo)
	if err != nil {
		return nil, fmt.Errorf("load uploads: %w", err)
	}
	return merge.Rebuild(ctx, sources, opts...)
}
