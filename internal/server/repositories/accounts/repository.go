package accounts

import (
	"context"

	"github.com/pelicoin/ledger-server/internal/server/models"
)

type Repository interface {
	// GetByLogin matches the login id case-insensitively.
	GetByLogin(ctx context.Context, loginID string) (*models.Account, error)

	List(ctx context.Context) ([]*models.Account, error)

	// UpdateBuckets writes every bucket column conditionally on
	// account.Version and bumps the version on success. A stale version
	// yields common.ErrVersionConflict.
	UpdateBuckets(ctx context.Context, account *models.Account) error
}
