package meetings

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

var meetingDate = time.Date(2026, time.March, 5, 15, 30, 0, 0, time.UTC)

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+meetings\s+WHERE\s+topic\s*=\s*\$1\s+AND\s+date\s*=\s*\$2$`

	rows := sqlmock.NewRows([]string{"id", "topic", "date", "attendees", "max_attendees", "version"}).
		AddRow("m-1", "Budgeting Basics", meetingDate, []byte(`["Pat Lee","Jane Doe"]`), 15, int64(2))
	mock.ExpectQuery(q).WithArgs("Budgeting Basics", meetingDate).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "Budgeting Basics", meetingDate)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Topic != "Budgeting Basics" || len(got.Attendees) != 2 || got.Attendees[0] != "Pat Lee" {
		t.Fatalf("unexpected meeting: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "Nope", meetingDate)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateAttendees_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+meetings\s+SET\s+attendees\s*=\s*\$1,\s*version\s*=\s*version\s*\+\s*1\s+WHERE\s+topic\s*=\s*\$2\s+AND\s+date\s*=\s*\$3\s+AND\s+version\s*=\s*\$4\s+RETURNING\s+version$`

	rows := sqlmock.NewRows([]string{"version"}).AddRow(int64(3))
	mock.ExpectQuery(q).
		WithArgs([]byte(`["Pat Lee"]`), "Budgeting Basics", meetingDate, int64(2)).
		WillReturnRows(rows)

	m := &models.Meeting{Topic: "Budgeting Basics", Date: meetingDate, Attendees: []string{"Pat Lee"}, Version: 2}
	if err := repo.UpdateAttendees(context.Background(), m); err != nil {
		t.Fatalf("UpdateAttendees error: %v", err)
	}
	if m.Version != 3 {
		t.Fatalf("version not bumped: %d", m.Version)
	}
}

func TestUpdateAttendees_StaleVersion(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE\s+meetings`).WillReturnError(sql.ErrNoRows)

	m := &models.Meeting{Topic: "Budgeting Basics", Date: meetingDate, Version: 1}
	err := repo.UpdateAttendees(context.Background(), m)
	if !errors.Is(err, common.ErrVersionConflict) {
		t.Fatalf("want common.ErrVersionConflict, got %v", err)
	}
}

func TestDelete_MatchesTopicAndDate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+meetings\s+WHERE\s+topic\s*=\s*\$1\s+AND\s+date\s*=\s*\$2$`

	mock.ExpectExec(q).
		WithArgs("Budgeting Basics", meetingDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "Budgeting Basics", meetingDate); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+meetings`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "Ghost", meetingDate)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
