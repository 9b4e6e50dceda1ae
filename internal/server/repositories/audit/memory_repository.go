package audit

import (
	"context"
	"sort"
	"sync"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests and local development.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*models.AuditEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.AuditEntry, error) {
	return r.filtered(func(*models.AuditEntry) bool { return true })
}

func (r *MemoryRepository) ListByCategory(ctx context.Context, category models.AuditCategory) ([]*models.AuditEntry, error) {
	return r.filtered(func(e *models.AuditEntry) bool { return e.Category == category })
}

func (r *MemoryRepository) filtered(keep func(*models.AuditEntry) bool) ([]*models.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.AuditEntry
	for _, e := range r.entries {
		if keep(e) {
			cp := *e
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Time.After(result[j].Time) })
	return result, nil
}

func (r *MemoryRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id {
			e.Approved = approved
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

var _ Repository = (*MemoryRepository)(nil)
