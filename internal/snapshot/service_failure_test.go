package snapshot_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/snapshot/metrics"
	"wardaudit/internal/snapshot/mocks"
	snapstore "wardaudit/internal/snapshot/store"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/requestcontext"
)

// passingBundle builds facts that satisfy every criterion under the default policy.
func passingBundle(code domain.WardCode, asOf time.Time) *facts.Bundle {
	vds := make([]facts.VotingDistrictCount, 0, 4)
	for i, n := range []int{40, 40, 20, 20} {
		vds = append(vds, facts.VotingDistrictCount{Code: domain.VotingDistrictCode(string(code) + string(rune('1'+i))), Members: n})
	}
	return &facts.Bundle{
		Ward:       geography.Ward{Code: code, Name: "Ward " + string(code), MunicipalityCode: "JHB", ProvinceCode: "GT"},
		AsOf:       asOf,
		Membership: facts.MembershipFacts{TotalActive: 120, VotingDistricts: vds},
		Growth:     facts.GrowthFacts{Previous: 100, Current: 120},
		Meetings: facts.MeetingFacts{Meetings: []facts.Meeting{{
			MeetingDate:      asOf.AddDate(0, -1, 0),
			QuorumRequired:   50,
			QuorumAchieved:   60,
			PresidingOfficer: &facts.Officer{Name: "J. Dlamini"},
		}}},
		Delegates: facts.DelegateFacts{Counts: map[facts.Tier]int{
			facts.TierSRPA: 1, facts.TierPPA: 1, facts.TierNPA: 1,
		}},
	}
}

type RefreshFailureSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	wards     *mocks.MockWardLister
	gatherer  *mocks.MockFactGatherer
	approvals *mocks.MockApprovalSource
	svc       *snapshot.Service
	now       time.Time
	ctx       context.Context
}

func TestRefreshFailureSuite(t *testing.T) {
	suite.Run(t, new(RefreshFailureSuite))
}

func (s *RefreshFailureSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.wards = mocks.NewMockWardLister(s.ctrl)
	s.gatherer = mocks.NewMockFactGatherer(s.ctrl)
	s.approvals = mocks.NewMockApprovalSource(s.ctrl)
	s.approvals.EXPECT().ApprovalFor(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.svc = snapshot.New(s.wards, s.gatherer, s.approvals, snapstore.NewInMemory(), compliance.DefaultPolicy(),
		snapshot.WithLogger(discard),
		snapshot.WithMetrics(metrics.New(prometheus.NewRegistry())),
		snapshot.WithConcurrency(2),
	)
}

func (s *RefreshFailureSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RefreshFailureSuite) TestFailedWardKeepsLastGoodSnapshot() {
	s.wards.EXPECT().WardCodes(gomock.Any()).Return([]domain.WardCode{"79700001", "79700002"}, nil).Times(2)
	s.gatherer.EXPECT().Gather(gomock.Any(), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, code domain.WardCode, asOf time.Time) (*facts.Bundle, error) {
			return passingBundle(code, asOf), nil
		}).Times(2)

	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	good, _ := s.svc.Cached("79700001")

	later := requestcontext.WithTime(context.Background(), s.now.Add(time.Hour))
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "membership facts unavailable"))
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700002"), gomock.Any()).
		DoAndReturn(func(_ context.Context, code domain.WardCode, asOf time.Time) (*facts.Bundle, error) {
			return passingBundle(code, asOf), nil
		})

	summary, err := s.svc.RefreshAll(later)
	s.Require().NoError(err)
	s.Equal(1, summary.Refreshed)
	s.Equal(1, summary.Failed)
	s.Require().Len(summary.Failures, 1)
	s.Equal(domain.WardCode("79700001"), summary.Failures[0].WardCode)
	s.Equal("unavailable", summary.Failures[0].Code)

	kept, _ := s.svc.Cached("79700001")
	s.Same(good, kept)
	refreshed, _ := s.svc.Cached("79700002")
	s.Equal(s.now.Add(time.Hour), refreshed.ComputedAt)
}

func (s *RefreshFailureSuite) TestListingFailureFailsCycle() {
	s.wards.EXPECT().WardCodes(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.False(s.svc.Ready())
}

func (s *RefreshFailureSuite) TestNoWardsIsReady() {
	s.wards.EXPECT().WardCodes(gomock.Any()).Return(nil, nil)

	summary, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	s.Zero(summary.Total)
	s.True(s.svc.Ready())
}

func (s *RefreshFailureSuite) TestColdMissFailureIsUnavailable() {
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "meetings facts unavailable"))

	_, err := s.svc.Get(s.ctx, "79700001", 0)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeSnapshotUnavailable))
}

func (s *RefreshFailureSuite) TestStaleSnapshotServedWhenForcedRefreshFails() {
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), s.now).
		Return(passingBundle("79700001", s.now), nil)
	_, err := s.svc.RefreshWard(s.ctx, "79700001")
	s.Require().NoError(err)

	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "growth facts unavailable"))

	later := requestcontext.WithTime(context.Background(), s.now.Add(2*time.Hour))
	e, err := s.svc.Get(later, "79700001", time.Minute)
	s.Require().NoError(err)
	s.Equal(s.now, e.Snapshot.ComputedAt)
}

func (s *RefreshFailureSuite) TestConcurrentColdReadsShareOneRefresh() {
	var calls atomic.Int32
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
		DoAndReturn(func(_ context.Context, code domain.WardCode, asOf time.Time) (*facts.Bundle, error) {
			calls.Add(1)
			time.Sleep(100 * time.Millisecond)
			return passingBundle(code, asOf), nil
		}).Times(1)

	start := make(chan struct{})
	var wg sync.WaitGroup
	versions := make([]uint64, 10)
	for i := range versions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			e, err := s.svc.Get(s.ctx, "79700001", 0)
			if s.NoError(err) {
				versions[i] = e.Version
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(int32(1), calls.Load())
	for _, v := range versions {
		s.Equal(versions[0], v)
	}
}

func (s *RefreshFailureSuite) TestCancelledCycleKeepsSwappedWards() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.wards.EXPECT().WardCodes(gomock.Any()).Return([]domain.WardCode{"79700001", "79700002"}, nil)
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
		Return(passingBundle("79700001", s.now), nil)
	s.gatherer.EXPECT().Gather(gomock.Any(), domain.WardCode("79700002"), gomock.Any()).
		DoAndReturn(func(ctx context.Context, code domain.WardCode, asOf time.Time) (*facts.Bundle, error) {
			<-ctx.Done()
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "delegates facts cancelled")
		})

	go func() {
		s.Eventually(func() bool {
			_, ok := s.svc.Cached("79700001")
			return ok
		}, time.Second, 5*time.Millisecond)
		cancel()
	}()

	summary, err := s.svc.RefreshAll(ctx)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	s.Equal(1, summary.Refreshed)
	s.Zero(summary.Failed)

	_, ok := s.svc.Cached("79700001")
	s.True(ok)
	_, ok = s.svc.Cached("79700002")
	s.False(ok)
	s.False(s.svc.Ready())
}
