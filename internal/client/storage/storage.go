// Package storage opens the local client database and wires up the
// repositories that live on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dsmirnova/taskcrew/internal/client/migrations"
	"github.com/dsmirnova/taskcrew/internal/client/repositories/tokens"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Tokens tokens.Repository
	DB     *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}

	return &Repositories{
		Tokens: tokens.NewSQLiteRepository(db),
		DB:     db,
	}, nil
}
