// Package sqlite provides the durable backing store: a single-table
// embedded SQLite database mapping blob keys to JSON payloads.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// BackingStore persists named blobs in a `state(key, payload)` table.
// Each Set fully overwrites the named blob.
type BackingStore struct {
	db   *sql.DB
	path string
}

// Open creates (or opens) the database at path and ensures the state
// table exists.
func Open(path string) (*BackingStore, error) {
	if path == "" {
		path = "habitcoach.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &BackingStore{db: db, path: path}, nil
}

// Get returns the blob stored under key; ok is false when the key was
// never written.
func (b *BackingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := b.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, true, nil
}

// Set upserts the blob under key.
func (b *BackingStore) Set(ctx context.Context, key string, blob []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO state(key, payload) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`, key, blob)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// RemoveMany deletes the named keys in one statement.
func (b *BackingStore) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := b.db.ExecContext(ctx, `DELETE FROM state WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

// Ping reports database reachability for the readiness probe.
func (b *BackingStore) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close releases the database handle.
func (b *BackingStore) Close() error { return b.db.Close() }

// Path returns the configured database path.
func (b *BackingStore) Path() string { return b.path }
