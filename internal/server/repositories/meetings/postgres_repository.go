package meetings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

// attendees travel as a jsonb column; the list round-trips whole because the
// store model has no partial-list append.
func scanMeeting(row interface{ Scan(...any) error }) (*models.Meeting, error) {
	m := &models.Meeting{}
	var attendees []byte
	if err := row.Scan(&m.ID, &m.Topic, &m.Date, &attendees, &m.MaxAttendees, &m.Version); err != nil {
		return nil, err
	}
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, topic string, date time.Time) (*models.Meeting, error) {

	query :=
		`SELECT id, topic, date, attendees, max_attendees, version
		 FROM meetings WHERE topic = $1 AND date = $2`

	m, err := scanMeeting(r.db.QueryRowContext(ctx, query, topic, date))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Meeting, error) {

	query :=
		`SELECT id, topic, date, attendees, max_attendees, version
		 FROM meetings ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var result []*models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, meeting *models.Meeting) error {

	attendees, err := json.Marshal(meeting.Attendees)
	if err != nil {
		return fmt.Errorf("error marshaling attendees: %v", err)
	}

	query :=
		`INSERT INTO meetings (id, topic, date, attendees, max_attendees, version)
		 VALUES ($1, $2, $3, $4, $5, 1)`

	if _, err := r.db.ExecContext(ctx, query,
		meeting.ID, meeting.Topic, meeting.Date, attendees, meeting.MaxAttendees); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	meeting.Version = 1
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, topic string, date time.Time) error {

	query := `DELETE FROM meetings WHERE topic = $1 AND date = $2`

	res, err := r.db.ExecContext(ctx, query, topic, date)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateAttendees(ctx context.Context, meeting *models.Meeting) error {

	attendees, err := json.Marshal(meeting.Attendees)
	if err != nil {
		return fmt.Errorf("error marshaling attendees: %v", err)
	}

	query :=
		`UPDATE meetings SET attendees = $1, version = version + 1
		 WHERE topic = $2 AND date = $3 AND version = $4
		 RETURNING version`

	err = r.db.QueryRowContext(ctx, query,
		attendees, meeting.Topic, meeting.Date, meeting.Version).Scan(&meeting.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
