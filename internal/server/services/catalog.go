package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// CatalogService manages the shop catalog (admin side).
type CatalogService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, rm repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, rm: rm}
}

func (s *CatalogService) AddItem(ctx context.Context, name string, price decimal.Decimal, requiresCustomInput bool, description string) (*models.ShopItem, error) {

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name must not be empty", common.ErrInvalidRequest)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", common.ErrInvalidRequest)
	}

	item := &models.ShopItem{
		Name:                name,
		Price:               price,
		RequiresCustomInput: requiresCustomInput,
		Description:         description,
	}
	if err := s.rm.Catalog(s.db).Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*models.ShopItem, error) {
	return s.rm.Catalog(s.db).List(ctx)
}

func (s *CatalogService) RemoveItem(ctx context.Context, name string) error {
	return s.rm.Catalog(s.db).Delete(ctx, name)
}
