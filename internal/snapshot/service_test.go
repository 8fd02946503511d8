package snapshot_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	factstore "wardaudit/internal/facts/store"
	geostore "wardaudit/internal/geography/store"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/snapshot/metrics"
	snapstore "wardaudit/internal/snapshot/store"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/requestcontext"
)

var discard = slog.New(slog.DiscardHandler)

type stubApprovals struct {
	mu        sync.Mutex
	approvals map[domain.WardCode]*compliance.Approval
}

func (s *stubApprovals) ApprovalFor(_ context.Context, code domain.WardCode) (*compliance.Approval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approvals[code], nil
}

func (s *stubApprovals) approve(code domain.WardCode, a *compliance.Approval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.approvals == nil {
		s.approvals = make(map[domain.WardCode]*compliance.Approval)
	}
	s.approvals[code] = a
}

// DemoWardSuite evaluates the two seeded demo wards end to end over the
// in-memory stores.
type DemoWardSuite struct {
	suite.Suite
	now       time.Time
	ctx       context.Context
	geo       *geostore.InMemory
	facts     *factstore.InMemory
	approvals *stubApprovals
	store     *snapstore.InMemory
	gatherer  *facts.Gatherer
	svc       *snapshot.Service
}

func TestDemoWardSuite(t *testing.T) {
	suite.Run(t, new(DemoWardSuite))
}

func (s *DemoWardSuite) SetupTest() {
	s.now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.geo = geostore.NewInMemory()
	s.Require().NoError(geostore.SeedDemoGeography(s.geo))
	w1, err := s.geo.Ward(s.ctx, geostore.DemoWardCode)
	s.Require().NoError(err)
	w2, err := s.geo.Ward(s.ctx, geostore.DemoSecondWardCode)
	s.Require().NoError(err)

	s.facts = factstore.NewInMemory()
	for _, sc := range factstore.DemoWards(*w1, *w2) {
		factstore.SeedDemoWard(s.facts, sc, s.now)
	}

	s.approvals = &stubApprovals{}
	s.store = snapstore.NewInMemory()
	s.gatherer = facts.NewGatherer(s.geo, s.facts, s.facts, s.facts, s.facts, facts.WithLogger(discard))
	s.svc = s.newService()
}

func (s *DemoWardSuite) newService() *snapshot.Service {
	return snapshot.New(s.geo, s.gatherer, s.approvals, s.store, compliance.DefaultPolicy(),
		snapshot.WithLogger(discard),
		snapshot.WithMetrics(metrics.New(prometheus.NewRegistry())),
	)
}

func (s *DemoWardSuite) TestRefreshAll() {
	s.False(s.svc.Ready())

	summary, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, summary.Total)
	s.Equal(2, summary.Refreshed)
	s.Zero(summary.Failed)
	s.True(s.svc.Ready())

	first, ok := s.svc.Cached(geostore.DemoWardCode)
	s.Require().True(ok)
	s.True(first.AllCriteriaPassed)
	s.False(first.IsCompliant)
	s.Equal(compliance.StatusPending, first.ApprovalStatus)
	s.Equal(120, first.Criteria.Membership.TotalMembers)
	s.Equal(66.67, first.Criteria.Membership.CompliancePercentage)
	s.Equal(20.0, first.Criteria.Growth.GrowthRate)
	s.Equal("J. Dlamini", first.Criteria.PresidingOfficer.OfficerName)
	s.Equal(s.now, first.ComputedAt)
	s.Len(first.VotingDistricts, 6)

	second, ok := s.svc.Cached(geostore.DemoSecondWardCode)
	s.Require().True(ok)
	s.False(second.AllCriteriaPassed)
	s.Equal([]string{"criterion_5"}, second.FailedCriteria())
}

func (s *DemoWardSuite) TestRefreshAllIsIdempotent() {
	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	before, _ := s.svc.Get(s.ctx, geostore.DemoWardCode, 0)

	_, err = s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	after, _ := s.svc.Get(s.ctx, geostore.DemoWardCode, 0)

	s.Equal(before.Snapshot, after.Snapshot)
	s.Greater(after.Version, before.Version)
}

func (s *DemoWardSuite) TestColdGetRefreshesSynchronously() {
	e, err := s.svc.Get(s.ctx, geostore.DemoWardCode, 0)
	s.Require().NoError(err)
	s.True(e.Snapshot.AllCriteriaPassed)

	// A single cold read does not mark the whole cache ready.
	s.False(s.svc.Ready())
}

func (s *DemoWardSuite) TestGetUnknownWard() {
	_, err := s.svc.Get(s.ctx, "99999999", 0)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownWard))
}

func (s *DemoWardSuite) TestMaxAgeForcesRefresh() {
	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)

	later := requestcontext.WithTime(context.Background(), s.now.Add(2*time.Hour))

	e, err := s.svc.Get(later, geostore.DemoWardCode, 3*time.Hour)
	s.Require().NoError(err)
	s.Equal(s.now, e.Snapshot.ComputedAt)

	e, err = s.svc.Get(later, geostore.DemoWardCode, time.Hour)
	s.Require().NoError(err)
	s.Equal(s.now.Add(2*time.Hour), e.Snapshot.ComputedAt)
}

func (s *DemoWardSuite) TestApprovalMakesWardCompliant() {
	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)
	cached, _ := s.svc.Cached(geostore.DemoWardCode)

	s.approvals.approve(geostore.DemoWardCode, &compliance.Approval{
		ID:         uuid.New(),
		ApprovedAt: s.now,
		ActorName:  "N. Mthembu",
		Criteria:   cached.Criteria,
	})
	e, err := s.svc.RefreshWard(s.ctx, geostore.DemoWardCode)
	s.Require().NoError(err)
	s.True(e.Snapshot.IsCompliant)
	s.Equal(compliance.StatusApproved, e.Snapshot.ApprovalStatus)
	s.Equal("N. Mthembu", e.Snapshot.ApprovedBy)

	// Approval stays sticky after the ward loses its delegates.
	s.facts.WithdrawDelegates(geostore.DemoWardCode, facts.TierSRPA, s.now.Add(-time.Hour))
	e, err = s.svc.RefreshWard(s.ctx, geostore.DemoWardCode)
	s.Require().NoError(err)
	s.True(e.Snapshot.IsCompliant)
	s.True(e.Snapshot.AllCriteriaPassed)
}

func (s *DemoWardSuite) TestWarmFromStore() {
	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)

	restarted := s.newService()
	s.False(restarted.Ready())

	n, err := restarted.Warm(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	s.True(restarted.Ready())

	warm, ok := restarted.Cached(geostore.DemoWardCode)
	s.Require().True(ok)
	s.True(warm.AllCriteriaPassed)
	s.True(warm.ComputedAt.Equal(s.now))
}

func TestWarm_EmptyStoreIsNotReady(t *testing.T) {
	svc := snapshot.New(nil, nil, nil, snapstore.NewInMemory(), compliance.DefaultPolicy(), snapshot.WithLogger(discard))
	n, err := svc.Warm(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, svc.Ready())
}
