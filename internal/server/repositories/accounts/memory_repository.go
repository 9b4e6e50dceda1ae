package accounts

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

// MemoryRepository is an in-memory Repository used for tests and local
// development. It applies the same optimistic-concurrency rule as the
// Postgres implementation.
type MemoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*models.Account // keyed by lowercase login id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]*models.Account)}
}

// Seed inserts or replaces an account, for test setup.
func (r *MemoryRepository) Seed(a *models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.Version == 0 {
		a.Version = 1
	}
	cp := *a
	r.accounts[strings.ToLower(a.LoginID)] = &cp
}

func (r *MemoryRepository) GetByLogin(ctx context.Context, loginID string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[strings.ToLower(loginID)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Student < result[j].Student })
	return result, nil
}

func (r *MemoryRepository) UpdateBuckets(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[strings.ToLower(account.LoginID)]
	if !ok || stored.Version != account.Version {
		return common.ErrVersionConflict
	}

	cp := *account
	cp.Version = stored.Version + 1
	r.accounts[strings.ToLower(account.LoginID)] = &cp
	account.Version = cp.Version
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
