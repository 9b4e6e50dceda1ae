package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/meetings"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rosterFixture struct {
	rm        *repomanager.MemoryRepositoryManager
	publisher *recordingPublisher
	svc       *RosterService
}

func newRosterFixture(t *testing.T) *rosterFixture {
	t.Helper()
	f := &rosterFixture{
		rm:        repomanager.NewMemoryRepositoryManager(),
		publisher: &recordingPublisher{},
	}
	f.svc = NewRosterService(nil, f.rm, f.publisher, testLogger())
	return f
}

var rosterDate = time.Date(2026, time.March, 5, 15, 30, 0, 0, time.UTC)

func (f *rosterFixture) seedMeeting(t *testing.T, topic string, max int, attendees ...string) {
	t.Helper()
	require.NoError(t, f.rm.MeetingRepo.Create(context.Background(), &models.Meeting{
		ID:           topic + "-id",
		Topic:        topic,
		Date:         rosterDate,
		Attendees:    attendees,
		MaxAttendees: max,
	}))
}

func TestJoin_Success(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Jane Doe")

	m, err := f.svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.NoError(t, err)

	assert.Equal(t, []string{"Jane Doe", "Pat Lee"}, m.Attendees, "sign-up order preserved")

	entries, _ := f.rm.AuditRepo.ListByCategory(context.Background(), models.CategorySignUps)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pat Lee signed up for Budgeting Basics on March 5, 3:30 PM", entries[0].Content)
	assert.Len(t, f.publisher.events, 1)
}

func TestJoin_AlreadyRegistered(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Pat Lee")

	_, err := f.svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrAlreadyRegistered)

	m, _ := f.rm.MeetingRepo.Get(context.Background(), "Budgeting Basics", rosterDate)
	assert.Len(t, m.Attendees, 1, "roster unchanged")
}

func TestJoin_MeetingFull(t *testing.T) {
	f := newRosterFixture(t)

	var full []string
	for i := 0; i < 15; i++ {
		full = append(full, fmt.Sprintf("Student %d", i))
	}
	f.seedMeeting(t, "Popular Talk", 15, full...)

	_, err := f.svc.Join(context.Background(), "Popular Talk", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrMeetingFull)

	m, _ := f.rm.MeetingRepo.Get(context.Background(), "Popular Talk", rosterDate)
	assert.Len(t, m.Attendees, 15, "roster unchanged")

	entries, _ := f.rm.AuditRepo.List(context.Background())
	assert.Empty(t, entries, "no audit entry for a failed join")
}

func TestJoin_DuplicateReportedBeforeFull(t *testing.T) {
	f := newRosterFixture(t)

	var full []string
	for i := 0; i < 14; i++ {
		full = append(full, fmt.Sprintf("Student %d", i))
	}
	full = append(full, "Pat Lee")
	f.seedMeeting(t, "Popular Talk", 15, full...)

	// both checks would fail; the duplicate must win
	_, err := f.svc.Join(context.Background(), "Popular Talk", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrAlreadyRegistered)
}

func TestJoin_CustomCapacity(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Small Group", 2, "A B", "C D")

	_, err := f.svc.Join(context.Background(), "Small Group", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrMeetingFull)
}

func TestJoin_UnknownMeeting(t *testing.T) {
	f := newRosterFixture(t)

	_, err := f.svc.Join(context.Background(), "Ghost Meeting", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLeave_Success(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Jane Doe", "Pat Lee", "Sam Poe")

	m, err := f.svc.Leave(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jane Doe", "Sam Poe"}, m.Attendees, "order of the rest preserved")

	entries, _ := f.rm.AuditRepo.ListByCategory(context.Background(), models.CategoryUnregisters)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pat Lee unregistered from Budgeting Basics on March 5, 3:30 PM", entries[0].Content)
}

func TestLeave_ByAdminIsRecorded(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Pat Lee")

	_, err := f.svc.Leave(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee", true)
	require.NoError(t, err)

	entries, _ := f.rm.AuditRepo.ListByCategory(context.Background(), models.CategoryUnregisters)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Content, "by an administrator")
}

func TestLeave_NotRegistered(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Jane Doe")

	_, err := f.svc.Leave(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee", false)
	require.ErrorIs(t, err, common.ErrNotRegistered)
}

func TestJoinThenLeave_RoundTrips(t *testing.T) {
	f := newRosterFixture(t)
	f.seedMeeting(t, "Budgeting Basics", 15, "Jane Doe")

	_, err := f.svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.NoError(t, err)
	m, _ := f.rm.MeetingRepo.Get(context.Background(), "Budgeting Basics", rosterDate)
	assert.True(t, m.Registered("Pat Lee"))

	_, err = f.svc.Leave(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee", false)
	require.NoError(t, err)
	m, _ = f.rm.MeetingRepo.Get(context.Background(), "Budgeting Basics", rosterDate)
	assert.False(t, m.Registered("Pat Lee"))
	assert.True(t, m.Registered("Jane Doe"), "other attendees untouched")
}

func TestJoin_SameTopicDifferentDate(t *testing.T) {
	f := newRosterFixture(t)
	otherDate := rosterDate.AddDate(0, 0, 7)

	require.NoError(t, f.rm.MeetingRepo.Create(context.Background(), &models.Meeting{
		ID: "w1", Topic: "Budgeting Basics", Date: rosterDate, MaxAttendees: 15,
	}))
	require.NoError(t, f.rm.MeetingRepo.Create(context.Background(), &models.Meeting{
		ID: "w2", Topic: "Budgeting Basics", Date: otherDate, MaxAttendees: 15,
	}))

	_, err := f.svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.NoError(t, err)

	m, _ := f.rm.MeetingRepo.Get(context.Background(), "Budgeting Basics", otherDate)
	assert.Empty(t, m.Attendees, "the other week's meeting is untouched")
}

// --- concurrency guard ---

type conflictOnceMeetings struct {
	meetings.Repository
	conflicted bool
}

func (r *conflictOnceMeetings) UpdateAttendees(ctx context.Context, m *models.Meeting) error {
	if !r.conflicted {
		r.conflicted = true
		return common.ErrVersionConflict
	}
	return r.Repository.UpdateAttendees(ctx, m)
}

func TestJoin_VersionConflictSurfaces(t *testing.T) {
	mem := repomanager.NewMemoryRepositoryManager()
	require.NoError(t, mem.MeetingRepo.Create(context.Background(), &models.Meeting{
		ID: "m1", Topic: "Budgeting Basics", Date: rosterDate, MaxAttendees: 15,
	}))

	rm := &fixtureRepoManager{
		MemoryRepositoryManager: mem,
		meetings:                &conflictOnceMeetings{Repository: mem.MeetingRepo},
	}
	svc := NewRosterService(nil, rm, &recordingPublisher{}, testLogger())

	_, err := svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrVersionConflict)

	// caller retries the whole operation and succeeds against fresh state
	_, err = svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.NoError(t, err)
}

func TestJoin_AuditAppendFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM meetings WHERE").
		WithArgs("Budgeting Basics", rosterDate).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "date", "attendees", "max_attendees", "version"}).
			AddRow("m1", "Budgeting Basics", rosterDate, []byte(`["Jane Doe"]`), 15, 1))

	// roster write succeeds inside the transaction, the audit append does
	// not: the whole transaction must roll back
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE meetings").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
	mock.ExpectExec("INSERT INTO audit_entries").
		WillReturnError(errors.New("append failed"))
	mock.ExpectRollback()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	require.NoError(t, err)
	svc := NewRosterService(db, rm, &recordingPublisher{}, testLogger())

	_, err = svc.Join(context.Background(), "Budgeting Basics", rosterDate, "Pat Lee")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}
