package audit

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

func (r *PostgresRepository) Append(ctx context.Context, entry *models.AuditEntry) error {

	query :=
		`INSERT INTO audit_entries (id, category, content, time, approved)
		 VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Category, entry.Content, entry.Time, entry.Approved); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.AuditEntry, error) {

	query :=
		`SELECT id, category, content, time, approved
		 FROM audit_entries WHERE id = $1`

	e := &models.AuditEntry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Category, &e.Content, &e.Time, &e.Approved)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.AuditEntry, error) {
	return r.list(ctx,
		`SELECT id, category, content, time, approved
		 FROM audit_entries ORDER BY time DESC`)
}

func (r *PostgresRepository) ListByCategory(ctx context.Context, category models.AuditCategory) ([]*models.AuditEntry, error) {
	return r.list(ctx,
		`SELECT id, category, content, time, approved
		 FROM audit_entries WHERE category = $1 ORDER BY time DESC`, category)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.AuditEntry, error) {

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		if err := rows.Scan(&e.ID, &e.Category, &e.Content, &e.Time, &e.Approved); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return result, nil
}

func (r *PostgresRepository) SetApproved(ctx context.Context, id string, approved bool) error {

	query := `UPDATE audit_entries SET approved = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, approved, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	query := `DELETE FROM audit_entries WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

var _ Repository = (*PostgresRepository)(nil)
