// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/server/migrations"
	"github.com/pelicoin/ledger-server/internal/server/repositories/accounts"
	"github.com/pelicoin/ledger-server/internal/server/repositories/audit"
	"github.com/pelicoin/ledger-server/internal/server/repositories/catalog"
	"github.com/pelicoin/ledger-server/internal/server/repositories/meetings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. It holds the connection pool so it can
// open transactions for InTransaction callers.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// Accounts returns an accounts.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

// Meetings returns a meetings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Meetings(db dbx.DBTX) meetings.Repository {
	return meetings.NewPostgresRepository(db)
}

// Catalog returns a catalog.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	return catalog.NewPostgresRepository(db)
}

// Audit returns an audit.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return audit.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the held database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

// InTransaction runs fn inside a database transaction. fn receives the
// transaction as a DBTX to hand to the repository vendors; any error causes
// a rollback.
func (m *PostgresRepositoryManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, m.db, nil, fn)
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager
// over the provided connection pool.
func NewPostgresRepositoryManager(db *sql.DB) (RepositoryManager, error) {
	return &PostgresRepositoryManager{db: db}, nil
}
