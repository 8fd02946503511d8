package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardaudit/internal/approval"
	"wardaudit/pkg/platform/sentinel"
)

func TestInMemory_OneRecordPerWard(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	_, err := s.FindByWard(ctx, "79700001")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	first := &approval.Record{ID: uuid.New(), WardCode: "79700001", ApprovedAt: time.Now().UTC()}
	require.NoError(t, s.Save(ctx, first))

	err = s.Save(ctx, &approval.Record{ID: uuid.New(), WardCode: "79700001"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)

	got, err := s.FindByWard(ctx, "79700001")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestInMemoryTx_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewInMemoryTx().RunInTx(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestInMemoryTx_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := NewInMemoryTx().RunInTx(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
