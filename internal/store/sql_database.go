// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package store

import (
	"context"
	"database/sql"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/migrations"
)

// DB is the primary database wrapper used by the server repositories.
//
// It embeds *sql.DB to expose the standard database/sql API and acts as the
// root dependency for repository construction and migration execution.
type DB struct {
	// DB is the underlying SQL connection pool.
	*sql.DB

	// logger is used for structured logging of database-related events.
	logger *logger.Logger
}

// Migrate executes all pending schema migrations. Intended to run once at
// application startup, before the database is used by any other component.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// Querier is the subset of database/sql operations shared by *sql.DB and
// *sql.Tx. Repository methods that participate in the push batch take a
// Querier so the sync service can funnel every write of a batch through a
// single transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
