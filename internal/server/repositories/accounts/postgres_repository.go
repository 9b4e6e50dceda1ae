package accounts

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

const accountColumns = `login_id, student, cash, smg, current_stocks, current_bonds,
	stocks_plus1, bonds_plus1, stocks_plus2, bonds_plus2, stocks_plus3, bonds_plus3, version`

func (r *PostgresRepository) GetByLogin(ctx context.Context, loginID string) (*models.Account, error) {

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(login_id) = LOWER($1)`

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, loginID).Scan(
		&a.LoginID, &a.Student, &a.Cash, &a.SMG, &a.CurrentStocks, &a.CurrentBonds,
		&a.StocksPlus1, &a.BondsPlus1, &a.StocksPlus2, &a.BondsPlus2,
		&a.StocksPlus3, &a.BondsPlus3, &a.Version,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY student`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := rows.Scan(
			&a.LoginID, &a.Student, &a.Cash, &a.SMG, &a.CurrentStocks, &a.CurrentBonds,
			&a.StocksPlus1, &a.BondsPlus1, &a.StocksPlus2, &a.BondsPlus2,
			&a.StocksPlus3, &a.BondsPlus3, &a.Version,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateBuckets(ctx context.Context, account *models.Account) error {

	query :=
		`UPDATE accounts
		 SET cash = $1, smg = $2, current_stocks = $3, current_bonds = $4,
		     stocks_plus1 = $5, bonds_plus1 = $6, stocks_plus2 = $7, bonds_plus2 = $8,
		     stocks_plus3 = $9, bonds_plus3 = $10, version = version + 1
		 WHERE LOWER(login_id) = LOWER($11) AND version = $12
		 RETURNING version`

	err := r.db.QueryRowContext(ctx, query,
		account.Cash, account.SMG, account.CurrentStocks, account.CurrentBonds,
		account.StocksPlus1, account.BondsPlus1, account.StocksPlus2, account.BondsPlus2,
		account.StocksPlus3, account.BondsPlus3,
		account.LoginID, account.Version,
	).Scan(&account.Version)

	if errors.Is(err, sql.ErrNoRows) {
		// either the row is gone or someone got there first
		return common.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
