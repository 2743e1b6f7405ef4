// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists stage snapshots in a namespaced SQLite blob store
// with per-stage retention and optional mirroring to remote sinks.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// BlobStore is a flat namespaced key-value store over SQLite. Retention
// logic lives above it, so the substrate could be swapped for a filesystem
// or object store without touching the stage layer.
type BlobStore struct {
	db *sql.DB
}

// OpenBlobStore opens or creates the blob database at path and ensures the
// schema exists.
func OpenBlobStore(path string) (*BlobStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
		PRIMARY KEY (namespace, key)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &BlobStore{db: db}, nil
}

// Close releases the database connection.
func (s *BlobStore) Close() error {
	return s.db.Close()
}

// Put writes value under namespace/key, replacing any previous value.
func (s *BlobStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blobs (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value=excluded.value,
			created_at=strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Get reads the value under namespace/key. A missing key yields (nil, nil);
// absence is a normal branch, not an error.
func (s *BlobStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM blobs WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// Delete removes namespace/key. Deleting a missing key is not an error.
func (s *BlobStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM blobs WHERE namespace = ? AND key = ?`,
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", namespace, key, err)
	}
	return nil
}

// ListKeys returns every key in the namespace in descending order.
func (s *BlobStore) ListKeys(ctx context.Context, namespace string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM blobs WHERE namespace = ? ORDER BY key DESC`,
		namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", namespace, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
