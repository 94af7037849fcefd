package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_entries (
	namespace  TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	value      TEXT    NOT NULL,
	revision   INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
	PRIMARY KEY (namespace, key)
);`

// SQLiteKV keeps carts in a local database file. It owns the connection and
// must be closed.
type SQLiteKV struct {
	db        *sql.DB
	namespace string
}

func NewSQLiteKV(ctx context.Context, path, namespace string) (*SQLiteKV, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("os.MkdirAll: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	// a single connection keeps ":memory:" databases stable and serializes writers
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, errors.Join(fmt.Errorf("conn.ExecContext: %w", err), conn.Close())
	}

	return &SQLiteKV{
		db:        conn,
		namespace: namespace,
	}, nil
}

func (r *SQLiteKV) Close() error {
	return r.db.Close()
}

func (r *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`,
		r.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.QueryRowContext: %w", err)
	}

	return value, true, nil
}

func (r *SQLiteKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE
			SET value = excluded.value,
			    revision = kv_entries.revision + 1,
			    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
			WHERE kv_entries.value <> excluded.value`,
		r.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (r *SQLiteKV) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`,
		r.namespace, key,
	)
	if err != nil {
		return false, fmt.Errorf("db.ExecContext: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return rowsAffected > 0, nil
}
