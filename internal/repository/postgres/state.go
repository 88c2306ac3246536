package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/recipai/internal/model"
)

var _ model.Store = (*StateRepository)(nil)

// StateRepository keeps client state rows keyed by namespace and key.
type StateRepository struct {
	db        *Connection
	namespace string
}

func NewStateRepository(db *Connection, namespace string) *StateRepository {
	return &StateRepository{
		db:        db,
		namespace: namespace,
	}
}

func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM client_state WHERE namespace = $1 AND key = $2`

	var value []byte
	err := r.db.QueryRowContext(ctx, query, r.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (r *StateRepository) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO client_state (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `DELETE FROM client_state WHERE namespace = $1 AND key = $2`
	for _, key := range keys {
		if _, err = tx.ExecContext(ctx, query, r.namespace, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
