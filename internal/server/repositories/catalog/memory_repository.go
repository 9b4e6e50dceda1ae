package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests and local development.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]*models.ShopItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.ShopItem)}
}

func (r *MemoryRepository) GetItem(ctx context.Context, name string) (*models.ShopItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.ShopItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.ShopItem, 0, len(r.items))
	for _, item := range r.items {
		cp := *item
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *MemoryRepository) Create(ctx context.Context, item *models.ShopItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *item
	r.items[item.Name] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; !ok {
		return common.ErrorNotFound
	}
	delete(r.items, name)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
