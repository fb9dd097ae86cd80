package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a KVStore backed by a single SQLite table, suitable for
// the EFS-mounted database files used in serverless deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// kv table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "./data/adapter-kit.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewStorageError("Open", "", err, false)
	}

	const schema = `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, NewStorageError("Open", "", fmt.Errorf("creating kv table: %w", err), false)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, NewStorageError("Get", key, ErrInvalidKey, false)
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStorageError("Get", key, ErrKeyNotFound, false)
	}
	if err != nil {
		return nil, NewStorageError("Get", key, err, true)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return NewStorageError("Put", key, ErrInvalidKey, false)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return NewStorageError("Put", key, err, true)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return NewStorageError("Delete", key, ErrInvalidKey, false)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return NewStorageError("Delete", key, err, true)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewStorageError("Delete", key, err, false)
	}
	if affected == 0 {
		return NewStorageError("Delete", key, ErrKeyNotFound, false)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM kv WHERE key LIKE ? || '%' ORDER BY key", prefix)
	if err != nil {
		return nil, NewStorageError("List", prefix, err, true)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, NewStorageError("List", prefix, err, false)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("List", prefix, err, true)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
