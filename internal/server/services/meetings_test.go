package services

import (
	"context"
	"testing"
	"time"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingCreate_ParsesLegacyCapacitySuffix(t *testing.T) {
	svc := NewMeetingService(nil, repomanager.NewMemoryRepositoryManager())
	date := time.Date(2026, time.April, 1, 16, 0, 0, 0, time.UTC)

	m, err := svc.Create(context.Background(), "Budgeting Basics [max:8]", date)
	require.NoError(t, err)
	assert.Equal(t, "Budgeting Basics", m.Topic)
	assert.Equal(t, 8, m.MaxAttendees)
	assert.NotEmpty(t, m.ID)
	assert.Empty(t, m.Attendees)

	m, err = svc.Create(context.Background(), "Open Forum", date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 15, m.MaxAttendees)
}

func TestMeetingCreate_Validation(t *testing.T) {
	svc := NewMeetingService(nil, repomanager.NewMemoryRepositoryManager())

	_, err := svc.Create(context.Background(), "   ", time.Now())
	require.ErrorIs(t, err, common.ErrInvalidRequest)

	_, err = svc.Create(context.Background(), "Topic", time.Time{})
	require.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestMeetingDelete_KeyedByTopicAndDate(t *testing.T) {
	svc := NewMeetingService(nil, repomanager.NewMemoryRepositoryManager())
	date := time.Date(2026, time.April, 1, 16, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), "Budgeting Basics", date)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "Budgeting Basics", date.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "Budgeting Basics", date))

	remaining, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, date.AddDate(0, 0, 7), remaining[0].Date)
}

func TestCatalogAddItem_Validation(t *testing.T) {
	svc := NewCatalogService(nil, repomanager.NewMemoryRepositoryManager())

	_, err := svc.AddItem(context.Background(), "  ", decimal.NewFromInt(5), false, "")
	require.ErrorIs(t, err, common.ErrInvalidRequest)

	_, err = svc.AddItem(context.Background(), "Hoodie", decimal.NewFromInt(-1), false, "")
	require.ErrorIs(t, err, common.ErrInvalidRequest)

	item, err := svc.AddItem(context.Background(), "Free Sticker", decimal.Zero, false, "while they last")
	require.NoError(t, err)
	assert.True(t, item.Price.IsZero(), "zero price is allowed")
}

func TestCatalogRemoveItem(t *testing.T) {
	svc := NewCatalogService(nil, repomanager.NewMemoryRepositoryManager())

	_, err := svc.AddItem(context.Background(), "Hoodie", decimal.NewFromInt(30), false, "")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), "Hoodie"))
	require.ErrorIs(t, svc.RemoveItem(context.Background(), "Hoodie"), common.ErrorNotFound)
}
