package audit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAppend_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+audit_entries\s*\(id,\s*category,\s*content,\s*time,\s*approved\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)$`

	now := time.Now()
	mock.ExpectExec(q).
		WithArgs("e-1", models.CategoryPurchases, "Pat Lee purchased Hoodie for 30 Pelicoin", now, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.AuditEntry{
		ID:       "e-1",
		Category: models.CategoryPurchases,
		Content:  "Pat Lee purchased Hoodie for 30 Pelicoin",
		Time:     now,
		Approved: true,
	}
	if err := repo.Append(context.Background(), e); err != nil {
		t.Fatalf("Append error: %v", err)
	}
}

func TestAppend_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+audit_entries`).WillReturnError(errors.New("db down"))

	err := repo.Append(context.Background(), &models.AuditEntry{ID: "e-1"})
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want common.ErrStoreUnavailable, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListByCategory(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+audit_entries\s+WHERE\s+category\s*=\s*\$1\s+ORDER\s+BY\s+time\s+DESC$`

	rows := sqlmock.NewRows([]string{"id", "category", "content", "time", "approved"}).
		AddRow("e-2", models.CategoryTransferRequests, "Pat Lee requested to transfer 10 Pelicoin from Cash to Bonds", time.Now(), false).
		AddRow("e-1", models.CategoryTransferRequests, "Jane Doe requested to transfer 5 Pelicoin from Cash to Stocks", time.Now().Add(-time.Hour), false)
	mock.ExpectQuery(q).WithArgs(models.CategoryTransferRequests).WillReturnRows(rows)

	got, err := repo.ListByCategory(context.Background(), models.CategoryTransferRequests)
	if err != nil {
		t.Fatalf("ListByCategory error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e-2" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestSetApproved_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+audit_entries`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetApproved(context.Background(), "ghost", true)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+audit_entries\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "e-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
