package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jbccc/znote/migrations"
)

// kvStore is a small key-value table inside the client's sqlite replica
// file. Collection documents are stored as JSON strings under well-known
// keys; the schema is applied through the shared migration runner.
type kvStore struct {
	db *sql.DB
}

func openKVStore(path string) (*kvStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local replica %s: %w", path, err)
	}

	// sqlite handles one writer at a time; the engine serializes writes
	// anyway, so a single connection avoids lock contention.
	db.SetMaxOpenConns(1)

	if err = migrations.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate local replica: %w", err)
	}

	return &kvStore{db: db}, nil
}

func (s *kvStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *kvStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value;`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *kvStore) delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *kvStore) close() error {
	return s.db.Close()
}
