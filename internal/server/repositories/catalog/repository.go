package catalog

import (
	"context"

	"github.com/pelicoin/ledger-server/internal/server/models"
)

type Repository interface {
	GetItem(ctx context.Context, name string) (*models.ShopItem, error)
	List(ctx context.Context) ([]*models.ShopItem, error)
	Create(ctx context.Context, item *models.ShopItem) error
	Delete(ctx context.Context, name string) error
}
