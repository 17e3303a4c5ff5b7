package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/savingsboard/core/internal/domain/entities"
	"github.com/savingsboard/core/internal/ports"
)

// SQLStore implements ports.KeyValueStore on the kv_store table. The same
// queries serve sqlite and postgres; placeholders are rebound per driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a new SQL-backed key-value store
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

var _ ports.KeyValueStore = (*SQLStore)(nil)

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.db.Rebind(`SELECT state_value FROM kv_store WHERE state_key = ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrStateNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (state_key, state_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE
		SET state_value = excluded.state_value, updated_at = excluded.updated_at`)

	_, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM kv_store WHERE state_key = ?`)

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Close is a no-op; the connection belongs to database.DB
func (s *SQLStore) Close() error {
	return nil
}
