package meetings

import (
	"context"
	"time"

	"github.com/pelicoin/ledger-server/internal/server/models"
)

// Meetings are keyed by the (topic, date) pair; topics repeat across dates,
// so every lookup, update and delete must match on both.
type Repository interface {
	Get(ctx context.Context, topic string, date time.Time) (*models.Meeting, error)

	List(ctx context.Context) ([]*models.Meeting, error)

	Create(ctx context.Context, meeting *models.Meeting) error

	Delete(ctx context.Context, topic string, date time.Time) error

	// UpdateAttendees round-trips the whole roster, conditionally on
	// meeting.Version; a stale version yields common.ErrVersionConflict.
	UpdateAttendees(ctx context.Context, meeting *models.Meeting) error
}
