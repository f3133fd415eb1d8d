// ABOUTME: Upload storage on Charm KV, one key per source.
// ABOUTME: Implements storage.Repository so charm can back the rebuild pipeline.
package charm

import (
	"fmt"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

var _ storage.Repository = (*Client)(nil)

// SaveUpload replaces the stored upload for u's source.
func (c *Client) SaveUpload(u *models.Upload) error {
	data, err := storage.EncodeUpload(u)
	if err != nil {
		return err
	}
	if err := c.write(func() error {
		return c.kv.Set(storage.UploadKey(u.Source), data)
	}); err != nil {
		return fmt.Errorf("save upload %s: %w", u.Source, err)
	}
	return nil
}

// GetUpload returns the stored upload for a source.
func (c *Client) GetUpload(source models.Source) (*models.Upload, error) {
	key := storage.UploadKey(source)

	c.mu.RLock()
	found, err := c.exists(key)
	var data []byte
	if err == nil && found {
		data, err = c.kv.Get(key)
	}
	c.mu.RUnlock()

	if err != nil {
		return nil, fmt.Errorf("get upload %s: %w", source, err)
	}
	if !found {
		return nil, fmt.Errorf("upload for %s: %w", source, storage.ErrNotFound)
	}
	return storage.DecodeUpload(data)
}

// ListUploads returns every stored upload ordered Hevy, Strong, Jefit.
// A value that does not decode fails the listing rather than hiding a source.
func (c *Client) ListUploads() ([]*models.Upload, error) {
	entries, err := c.scan([]byte(storage.UploadPrefix))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	uploads := make([]*models.Upload, 0, len(entries))
	for _, e := range entries {
		u, err := storage.DecodeUpload(e.value)
		if err != nil {
			return nil, fmt.Errorf("list uploads: %s: %w", e.key, err)
		}
		uploads = append(uploads, u)
	}
	storage.SortUploads(uploads)
	return uploads, nil
}

// DeleteUpload removes the stored upload for a source.
func (c *Client) DeleteUpload(source models.Source) error {
	key := storage.UploadKey(source)
	err := c.write(func() error {
		found, err := c.exists(key)
		if err != nil {
			return err
		}
		if !found {
			return storage.ErrNotFound
		}
		return c.kv.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete upload %s: %w", source, err)
	}
	return nil
}
