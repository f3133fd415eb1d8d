// ABOUTME: Upload CRUD operations for SQLite storage.
// ABOUTME: Saving upserts by source inside a transaction so readers never see partial content.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/liftlog/internal/models"
)

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// SaveUpload stores an upload, replacing the previous one for its source.
func (d *DB) SaveUpload(u *models.Upload) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO uploads (source, id, filename, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			id = excluded.id,
			filename = excluded.filename,
			content = excluded.content,
			uploaded_at = excluded.uploaded_at
	`
	_, err = tx.Exec(query,
		string(u.Source),
		u.ID.String(),
		u.Filename,
		u.Content,
		u.UploadedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

// GetUpload retrieves the upload stored for a source.
func (d *DB) GetUpload(source models.Source) (*models.Upload, error) {
	query := `
		SELECT source, id, filename, content, uploaded_at
		FROM uploads
		WHERE source = ?
	`
	u, err := d.scanUpload(d.db.QueryRow(query, string(source)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload for %s: %w", source, ErrNotFound)
	}
	return u, err
}

// ListUploads retrieves every stored upload in source order.
func (d *DB) ListUploads() ([]*models.Upload, error) {
	query := `
		SELECT source, id, filename, content, uploaded_at
		FROM uploads
		ORDER BY uploaded_at DESC
	`
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.Upload
	for rows.Next() {
		u, err := d.scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	SortUploads(uploads)
	return uploads, nil
}

// DeleteUpload removes the upload for a source.
func (d *DB) DeleteUpload(source models.Source) error {
	result, err := d.db.Exec("DELETE FROM uploads WHERE source = ?", string(source))
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("upload for %s: %w", source, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (d *DB) scanUpload(s scanner) (*models.Upload, error) {
	var (
		u          models.Upload
		source, id string
		uploadedAt string
	)
	if err := s.Scan(&source, &id, &u.Filename, &u.Content, &uploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan upload: %w", err)
	}

	var err error
	u.Source = models.Source(source)
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse upload id: %w", err)
	}
	if u.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt); err != nil {
		return nil, fmt.Errorf("parse uploaded_at: %w", err)
	}
	return &u, nil
}
