// ABOUTME: Badger-backed upload store for a local embedded key-value backend.
// ABOUTME: Uploads are JSON values under "upload:<source>" keys.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/liftlog/internal/models"
)

// UploadPrefix namespaces upload keys in key-value backends.
const UploadPrefix = "upload:"

// BadgerStore keeps uploads in a Badger database directory.
type BadgerStore struct {
	db *badger.DB
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger store in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// UploadKey returns the key for a source's upload.
func UploadKey(source models.Source) []byte {
	return []byte(UploadPrefix + source.Key())
}

// SaveUpload writes the upload in a single transaction.
func (s *BadgerStore) SaveUpload(u *models.Upload) error {
	data, err := EncodeUpload(u)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(UploadKey(u.Source), data)
	}); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

// GetUpload reads the upload for a source.
func (s *BadgerStore) GetUpload(source models.Source) (*models.Upload, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(UploadKey(source))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("upload for %s: %w", source, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	return DecodeUpload(data)
}

// ListUploads iterates the upload prefix.
func (s *BadgerStore) ListUploads() ([]*models.Upload, error) {
	var uploads []*models.Upload
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(UploadPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			data, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			u, err := DecodeUpload(data)
			if err != nil {
				return err
			}
			uploads = append(uploads, u)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	SortUploads(uploads)
	return uploads, nil
}

// DeleteUpload removes a source's upload.
func (s *BadgerStore) DeleteUpload(source models.Source) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(UploadKey(source)); err != nil {
			return err
		}
		return txn.Delete(UploadKey(source))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("upload for %s: %w", source, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

// Close closes the Badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
