package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dsmirnova/taskcrew/internal/common"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM session WHERE key = ?`, common.TokenStorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return value, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, common.TokenStorageKey, token)
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session WHERE key = ?`, common.TokenStorageKey)
	if err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
