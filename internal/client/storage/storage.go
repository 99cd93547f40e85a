// Package storage opens the local vault database and keeps its schema
// current with embedded goose migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/avdeev/lockbox/internal/client/migrations"
	"github.com/avdeev/lockbox/internal/client/repositories/accounts"
	"github.com/avdeev/lockbox/internal/client/repositories/entries"
	"github.com/avdeev/lockbox/internal/dbx"
)

// Repositories bundles the repository set backed by one database handle.
type Repositories struct {
	Accounts accounts.Repository
	Entries  entries.Repository
	DB       *sql.DB
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at dsn, migrates it and returns the
// repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Accounts: accounts.NewSQLiteRepository(db),
		Entries:  entries.NewSQLiteRepository(db),
		DB:       db,
	}, nil
}

// PurgeAccount removes the account and all of its entries in a single
// transaction: either everything goes or nothing does.
func (r *Repositories) PurgeAccount(ctx context.Context, identifier string) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := entries.NewSQLiteRepository(tx).DeleteAllByAccount(ctx, identifier); err != nil {
			return err
		}
		return accounts.NewSQLiteRepository(tx).Delete(ctx, identifier)
	})
}
