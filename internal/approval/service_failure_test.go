package approval_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wardaudit/internal/approval"
	"wardaudit/internal/approval/mocks"
	"wardaudit/internal/compliance"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/wardlock"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/sentinel"
	"wardaudit/pkg/requestcontext"
)

const ward domain.WardCode = "79700001"

// ApprovalFailureSuite drives the approval service through collaborator
// failures with mocks.
type ApprovalFailureSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	tx      *mocks.MockTxRunner
	snaps   *mocks.MockSnapshots
	auditor *mocks.MockAuditPublisher
	service *approval.Service
	ctx     context.Context
	passing *compliance.Snapshot
}

func TestApprovalFailureSuite(t *testing.T) {
	suite.Run(t, new(ApprovalFailureSuite))
}

func (s *ApprovalFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.tx = mocks.NewMockTxRunner(s.ctrl)
	s.snaps = mocks.NewMockSnapshots(s.ctrl)
	s.auditor = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = approval.New(s.store, s.tx, s.snaps, s.auditor,
		approval.WithLogger(discard),
		approval.WithApproverRoles([]string{"provincial_secretary"}),
	)

	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithActor(requestcontext.WithTime(context.Background(), now),
		requestcontext.ActorInfo{ID: "member-1", Name: "T. Nkosi", Role: "provincial_secretary"})

	s.passing = &compliance.Snapshot{
		WardCode:          ward,
		AllCriteriaPassed: true,
		ApprovalStatus:    compliance.StatusPending,
		ComputedAt:        now,
	}
	s.snaps.EXPECT().Locker().Return(wardlock.NewSharded()).AnyTimes()

	// Transactions run the unit of work inline.
	s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
	).AnyTimes()
}

func (s *ApprovalFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ApprovalFailureSuite) TestConflictingRecordIsAlreadyCompliant() {
	s.snaps.EXPECT().Cached(ward).Return(s.passing, true)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := s.service.Approve(s.ctx, ward, approval.Input{})
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyCompliant))
}

func (s *ApprovalFailureSuite) TestAuditFailureFailsApproval() {
	s.snaps.EXPECT().Cached(ward).Return(s.passing, true)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

	_, err := s.service.Approve(s.ctx, ward, approval.Input{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ApprovalFailureSuite) TestRefreshFailureAfterCommitStillApproves() {
	s.snaps.EXPECT().Cached(ward).Return(s.passing, true)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.snaps.EXPECT().RefreshWardLocked(gomock.Any(), ward).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "fact store down"))

	res, err := s.service.Approve(s.ctx, ward, approval.Input{})
	s.Require().NoError(err)
	s.NotNil(res.Record)
	s.Nil(res.Snapshot)
}

func (s *ApprovalFailureSuite) TestColdWardIsEvaluatedUnderTheLock() {
	s.snaps.EXPECT().Cached(ward).Return(nil, false)
	gomock.InOrder(
		s.snaps.EXPECT().RefreshWardLocked(gomock.Any(), ward).Return(&snapshot.Entry{Snapshot: s.passing, Version: 1}, nil),
		s.snaps.EXPECT().RefreshWardLocked(gomock.Any(), ward).Return(&snapshot.Entry{Snapshot: s.passing, Version: 2}, nil),
	)
	s.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.service.Approve(s.ctx, ward, approval.Input{})
	s.Require().NoError(err)
	s.Equal(ward, res.Record.WardCode)
}

func (s *ApprovalFailureSuite) TestColdWardWithoutFactsIsUnavailable() {
	s.snaps.EXPECT().Cached(ward).Return(nil, false)
	s.snaps.EXPECT().RefreshWardLocked(gomock.Any(), ward).Return(nil, errors.New("timeout"))

	_, err := s.service.Approve(s.ctx, ward, approval.Input{})
	s.True(dErrors.HasCode(err, dErrors.CodeSnapshotUnavailable))
}

func (s *ApprovalFailureSuite) TestDenialAuditFailureKeepsDenial() {
	ctx := requestcontext.WithActor(s.ctx, requestcontext.ActorInfo{ID: "member-2", Role: "national_secretary"})
	s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox unavailable"))

	_, err := s.service.Approve(ctx, ward, approval.Input{})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestLookupApprovalFor(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	lookup := approval.NewLookup(store)
	ctx := context.Background()

	store.EXPECT().FindByWard(ctx, ward).Return(nil, sentinel.ErrNotFound)
	a, err := lookup.ApprovalFor(ctx, ward)
	require.NoError(t, err)
	assert.Nil(t, a)

	store.EXPECT().FindByWard(ctx, ward).Return(&approval.Record{WardCode: ward, ActorName: "T. Nkosi"}, nil)
	a, err = lookup.ApprovalFor(ctx, ward)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "T. Nkosi", a.ActorName)

	store.EXPECT().FindByWard(ctx, ward).Return(nil, errors.New("db down"))
	_, err = lookup.ApprovalFor(ctx, ward)
	assert.Error(t, err)
}
