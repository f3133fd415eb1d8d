// ABOUTME: SQLite upload store: connection setup and the versioned schema.
// ABOUTME: Pure-Go modernc.org/sqlite driver, so liftlog builds without CGO.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFilename is the SQLite file name inside the data directory.
const DBFilename = "liftlog.db"

// Pragmas go in the DSN so every pooled connection gets them, not just the
// first one.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// migrations[i] takes the schema from user_version i to i+1.
var migrations = []string{
	`CREATE TABLE uploads (
		source      TEXT PRIMARY KEY,
		id          TEXT NOT NULL,
		filename    TEXT NOT NULL,
		content     BLOB NOT NULL,
		uploaded_at DATETIME NOT NULL
	);
	CREATE INDEX idx_uploads_uploaded ON uploads(uploaded_at DESC);`,
}

// DB is the SQLite upload store.
type DB struct {
	db *sql.DB
}

// Open opens or creates the store at path and brings its schema up to date.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d := &DB{db: db}

	if err := d.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// Raw exports are personal training history.
	if err := os.Chmod(path, 0600); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}
	return d, nil
}

// SchemaVersion reports the applied migration count.
func (d *DB) SchemaVersion() (int, error) {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func (d *DB) migrate() error {
	current, err := d.SchemaVersion()
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema v%d is newer than this liftlog supports (v%d)", current, len(migrations))
	}

	for v := current; v < len(migrations); v++ {
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", v+1, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}
	}
	return nil
}

// DataDir is where sqlite and badger data live unless data_dir is set:
// $XDG_DATA_HOME/liftlog, falling back to ~/.local/share/liftlog.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "liftlog")
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}
