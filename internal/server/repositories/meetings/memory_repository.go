package meetings

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/models"
)

// MemoryRepository is an in-memory Repository for tests and local
// development, with the same version rules as the Postgres implementation.
type MemoryRepository struct {
	mu       sync.Mutex
	meetings []*models.Meeting
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func key(topic string, date time.Time) string {
	return topic + "|" + date.UTC().Format(time.RFC3339Nano)
}

func (r *MemoryRepository) find(topic string, date time.Time) *models.Meeting {
	for _, m := range r.meetings {
		if key(m.Topic, m.Date) == key(topic, date) {
			return m
		}
	}
	return nil
}

func copyMeeting(m *models.Meeting) *models.Meeting {
	cp := *m
	cp.Attendees = append([]string(nil), m.Attendees...)
	return &cp
}

func (r *MemoryRepository) Get(ctx context.Context, topic string, date time.Time) (*models.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.find(topic, date)
	if m == nil {
		return nil, common.ErrorNotFound
	}
	return copyMeeting(m), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		result = append(result, copyMeeting(m))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *MemoryRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meeting.Version = 1
	r.meetings = append(r.meetings, copyMeeting(meeting))
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, topic string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.meetings {
		if key(m.Topic, m.Date) == key(topic, date) {
			r.meetings = append(r.meetings[:i], r.meetings[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) UpdateAttendees(ctx context.Context, meeting *models.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.find(meeting.Topic, meeting.Date)
	if stored == nil || stored.Version != meeting.Version {
		return common.ErrVersionConflict
	}

	stored.Attendees = append([]string(nil), meeting.Attendees...)
	stored.Version++
	meeting.Version = stored.Version
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
