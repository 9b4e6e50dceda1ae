package services

import (
	"context"
	"database/sql"

	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
)

// AccountService is the read side: student dashboards and the admin student
// view. Balance writes go through LedgerService only.
type AccountService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewAccountService(db *sql.DB, rm repomanager.RepositoryManager) *AccountService {
	return &AccountService{db: db, rm: rm}
}

func (s *AccountService) Get(ctx context.Context, loginID string) (*models.Account, error) {
	return s.rm.Accounts(s.db).GetByLogin(ctx, loginID)
}

func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.rm.Accounts(s.db).List(ctx)
}

// AuditLog returns the full audit trail, newest first.
func (s *AccountService) AuditLog(ctx context.Context) ([]*models.AuditEntry, error) {
	return s.rm.Audit(s.db).List(ctx)
}

// DeleteAuditEntry removes one audit record (admin housekeeping).
func (s *AccountService) DeleteAuditEntry(ctx context.Context, id string) error {
	return s.rm.Audit(s.db).Delete(ctx, id)
}
