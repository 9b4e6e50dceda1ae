package repomanager

import (
	"context"

	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/server/repositories/accounts"
	"github.com/pelicoin/ledger-server/internal/server/repositories/audit"
	"github.com/pelicoin/ledger-server/internal/server/repositories/catalog"
	"github.com/pelicoin/ledger-server/internal/server/repositories/meetings"
)

// MemoryRepositoryManager vends in-memory repositories. The repository fields
// are exported so tests can seed and inspect state directly. InTransaction
// just invokes the callback; the memory repos apply writes immediately.
type MemoryRepositoryManager struct {
	AccountRepo *accounts.MemoryRepository
	MeetingRepo *meetings.MemoryRepository
	CatalogRepo *catalog.MemoryRepository
	AuditRepo   *audit.MemoryRepository
}

// NewMemoryRepositoryManager constructs a manager over fresh empty repositories.
func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		AccountRepo: accounts.NewMemoryRepository(),
		MeetingRepo: meetings.NewMemoryRepository(),
		CatalogRepo: catalog.NewMemoryRepository(),
		AuditRepo:   audit.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return m.AccountRepo
}

func (m *MemoryRepositoryManager) Meetings(db dbx.DBTX) meetings.Repository {
	return m.MeetingRepo
}

func (m *MemoryRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	return m.CatalogRepo
}

func (m *MemoryRepositoryManager) Audit(db dbx.DBTX) audit.Repository {
	return m.AuditRepo
}
