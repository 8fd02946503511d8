package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "wardaudit/pkg/platform/audit"
)

func TestInMemoryStore_Outbox(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := range 3 {
		id := uuid.New()
		ids = append(ids, id)
		require.NoError(t, s.Append(ctx, audit.Event{
			ID: id, Action: "ward_approved", WardCode: "79700001",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	pending, err := s.Pending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)

	require.NoError(t, s.MarkProcessed(ctx, []uuid.UUID{ids[0], ids[1]}, base.Add(time.Hour)))

	pending, err = s.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[2], pending[0].ID)
	assert.Len(t, s.Outbox(), 3)
}

func TestInMemoryStore_AppendWithIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	id := uuid.New()
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AppendWithID(ctx, id, audit.Event{Action: "ward_approved", WardCode: "79700001", Timestamp: older}))
	require.NoError(t, s.AppendWithID(ctx, id, audit.Event{Action: "ward_approved", WardCode: "79700001", Timestamp: older}))
	require.NoError(t, s.AppendWithID(ctx, uuid.New(), audit.Event{Action: "meeting_recorded", WardCode: "79700001", Timestamp: older.Add(time.Hour)}))
	require.NoError(t, s.AppendWithID(ctx, uuid.New(), audit.Event{Action: "meeting_recorded", WardCode: "79700002", Timestamp: older}))

	events, err := s.ListByWard(ctx, "79700001")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "meeting_recorded", events[0].Action)
	assert.Equal(t, id, events[1].ID)
}
