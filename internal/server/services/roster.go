package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/logging"
	"github.com/pelicoin/ledger-server/internal/server/events"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
)

// RosterService mutates meeting attendee lists under two invariants: no
// duplicate name, and the list never exceeds capacity. The whole list
// round-trips on every write (the store has no partial-list append), guarded
// by the meeting version so concurrent joins cannot both squeeze past the
// limit. The roster write and its audit entry share a transaction.
type RosterService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	publisher events.Publisher
	logger    logging.Logger
}

func NewRosterService(
	db *sql.DB,
	rm repomanager.RepositoryManager,
	publisher events.Publisher,
	logger logging.Logger,
) *RosterService {
	return &RosterService{
		db:        db,
		rm:        rm,
		publisher: publisher,
		logger:    logger,
	}
}

// Join adds attendeeName to the meeting identified by (topic, date).
// The duplicate check runs before the capacity check: signing up twice is
// reported as such even when the meeting is also full.
func (s *RosterService) Join(ctx context.Context, topic string, date time.Time, attendeeName string) (*models.Meeting, error) {

	meeting, err := s.rm.Meetings(s.db).Get(ctx, topic, date)
	if err != nil {
		return nil, err
	}

	if meeting.Registered(attendeeName) {
		return nil, common.ErrAlreadyRegistered
	}
	if meeting.Full() {
		return nil, common.ErrMeetingFull
	}

	meeting.Attendees = append(meeting.Attendees, attendeeName)
	entry := &models.AuditEntry{
		ID:       uuid.NewString(),
		Category: models.CategorySignUps,
		Content:  models.SignUpContent(attendeeName, meeting.Topic, meeting.Date),
		Time:     time.Now(),
		Approved: true,
	}

	err = s.rm.InTransaction(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Meetings(tx).UpdateAttendees(ctx, meeting); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return meeting, nil
}

// Leave removes attendeeName from the meeting's roster. byAdmin records in
// the audit trail whether an administrator or the student performed the
// action.
func (s *RosterService) Leave(ctx context.Context, topic string, date time.Time, attendeeName string, byAdmin bool) (*models.Meeting, error) {

	meeting, err := s.rm.Meetings(s.db).Get(ctx, topic, date)
	if err != nil {
		return nil, err
	}

	if !meeting.Registered(attendeeName) {
		return nil, common.ErrNotRegistered
	}

	kept := meeting.Attendees[:0]
	for _, name := range meeting.Attendees {
		if name != attendeeName {
			kept = append(kept, name)
		}
	}
	meeting.Attendees = kept

	entry := &models.AuditEntry{
		ID:       uuid.NewString(),
		Category: models.CategoryUnregisters,
		Content:  models.UnregisterContent(attendeeName, meeting.Topic, meeting.Date, byAdmin),
		Time:     time.Now(),
		Approved: true,
	}

	err = s.rm.InTransaction(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Meetings(tx).UpdateAttendees(ctx, meeting); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return meeting, nil
}

func (s *RosterService) publish(ctx context.Context, entry *models.AuditEntry) {
	err := s.publisher.Publish(ctx, events.AuditEvent{
		ID:       entry.ID,
		Category: string(entry.Category),
		Content:  entry.Content,
		Time:     entry.Time,
		Approved: entry.Approved,
	})
	if err != nil {
		s.logger.Warn(ctx, "audit event publish failed", "entry_id", entry.ID, "error", err.Error())
	}
}
