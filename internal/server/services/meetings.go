package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
)

// MeetingService covers the admin side of meetings: creating, listing and
// deleting them. Roster mutations live in RosterService.
type MeetingService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewMeetingService(db *sql.DB, rm repomanager.RepositoryManager) *MeetingService {
	return &MeetingService{db: db, rm: rm}
}

// Create registers a new meeting. The raw topic may carry a legacy
// "[max:N]" capacity suffix; it is parsed out here once, so the stored
// topic is always the clean display form.
func (s *MeetingService) Create(ctx context.Context, rawTopic string, date time.Time) (*models.Meeting, error) {

	topic, maxAttendees := models.ParseTopicCapacity(rawTopic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic must not be empty", common.ErrInvalidRequest)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date must be set", common.ErrInvalidRequest)
	}

	meeting := &models.Meeting{
		ID:           uuid.NewString(),
		Topic:        topic,
		Date:         date,
		Attendees:    []string{},
		MaxAttendees: maxAttendees,
	}
	if err := s.rm.Meetings(s.db).Create(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *MeetingService) List(ctx context.Context) ([]*models.Meeting, error) {
	return s.rm.Meetings(s.db).List(ctx)
}

func (s *MeetingService) Delete(ctx context.Context, topic string, date time.Time) error {
	return s.rm.Meetings(s.db).Delete(ctx, topic, date)
}
