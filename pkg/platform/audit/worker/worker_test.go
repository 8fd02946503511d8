package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wardaudit/internal/platform/kafka/producer"
	audit "wardaudit/pkg/platform/audit"
	"wardaudit/pkg/platform/audit/worker/mocks"
)

type WorkerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	outbox   *mocks.MockOutbox
	producer *mocks.MockProducer
	worker   *Worker
	now      time.Time
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

func (s *WorkerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.outbox = mocks.NewMockOutbox(s.ctrl)
	s.producer = mocks.NewMockProducer(s.ctrl)
	s.now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	s.worker = NewWorker(s.outbox, s.producer, WithBatchSize(10))
	s.worker.now = func() time.Time { return s.now }
}

func (s *WorkerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *WorkerSuite) entry(ward string) audit.OutboxEntry {
	return audit.OutboxEntry{
		ID:            uuid.New(),
		AggregateType: "ward",
		AggregateID:   ward,
		EventType:     "ward_approved",
		Payload:       []byte(`{"action":"ward_approved"}`),
	}
}

func (s *WorkerSuite) TestRelayOnce() {
	ctx := context.Background()

	s.Run("empty outbox publishes nothing", func() {
		s.outbox.EXPECT().Pending(ctx, 10).Return(nil, nil)

		n, err := s.worker.RelayOnce(ctx)
		s.Require().NoError(err)
		s.Zero(n)
	})

	s.Run("publishes keyed by ward then marks processed", func() {
		e1, e2 := s.entry("79700001"), s.entry("79700002")
		s.outbox.EXPECT().Pending(ctx, 10).Return([]audit.OutboxEntry{e1, e2}, nil)
		s.producer.EXPECT().Publish(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...producer.Message) error {
				s.Require().Len(msgs, 2)
				s.Equal("79700001", msgs[0].Key)
				s.Equal(e1.ID.String(), msgs[0].Headers["event_id"])
				s.Equal("ward_approved", msgs[0].Headers["event_type"])
				return nil
			})
		s.outbox.EXPECT().MarkProcessed(ctx, []uuid.UUID{e1.ID, e2.ID}, s.now).Return(nil)

		n, err := s.worker.RelayOnce(ctx)
		s.Require().NoError(err)
		s.Equal(2, n)
	})

	s.Run("publish failure leaves entries pending", func() {
		s.outbox.EXPECT().Pending(ctx, 10).Return([]audit.OutboxEntry{s.entry("79700001")}, nil)
		s.producer.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

		_, err := s.worker.RelayOnce(ctx)
		s.Require().Error(err)
		s.ErrorContains(err, "broker down")
	})
}

func (s *WorkerSuite) TestRunStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	s.worker.interval = time.Millisecond
	s.outbox.EXPECT().Pending(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	done := make(chan error, 1)
	go func() { done <- s.worker.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
}
