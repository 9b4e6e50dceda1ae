package repomanager

import (
	"context"

	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/server/repositories/accounts"
	"github.com/pelicoin/ledger-server/internal/server/repositories/audit"
	"github.com/pelicoin/ledger-server/internal/server/repositories/catalog"
	"github.com/pelicoin/ledger-server/internal/server/repositories/meetings"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same constructors inside and outside a transaction, and owns the
// transaction boundary itself: InTransaction hands the callback a DBTX whose
// writes commit or roll back together.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error
	Accounts(db dbx.DBTX) accounts.Repository
	Meetings(db dbx.DBTX) meetings.Repository
	Catalog(db dbx.DBTX) catalog.Repository
	Audit(db dbx.DBTX) audit.Repository
}
