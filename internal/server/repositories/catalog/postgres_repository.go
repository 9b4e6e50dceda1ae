package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetItem(ctx context.Context, name string) (*models.ShopItem, error) {

	query :=
		`SELECT name, price, requires_custom_input, description
		 FROM shop_items WHERE name = $1`

	item := &models.ShopItem{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&item.Name, &item.Price, &item.RequiresCustomInput, &item.Description)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return item, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.ShopItem, error) {

	query :=
		`SELECT name, price, requires_custom_input, description
		 FROM shop_items ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var result []*models.ShopItem
	for rows.Next() {
		item := &models.ShopItem{}
		if err := rows.Scan(&item.Name, &item.Price, &item.RequiresCustomInput, &item.Description); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.ShopItem) error {

	query :=
		`INSERT INTO shop_items (name, price, requires_custom_input, description)
		 VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query,
		item.Name, item.Price, item.RequiresCustomInput, item.Description); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, name string) error {

	query := `DELETE FROM shop_items WHERE name = $1`

	res, err := r.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
