//go:build integration

package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wardaudit/internal/approval"
	approvalstore "wardaudit/internal/approval/store"
	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	factstore "wardaudit/internal/facts/store"
	geostore "wardaudit/internal/geography/store"
	"wardaudit/internal/snapshot"
	snapstore "wardaudit/internal/snapshot/store"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/audit/publisher"
	auditpostgres "wardaudit/pkg/platform/audit/store/postgres"
	"wardaudit/pkg/requestcontext"
	"wardaudit/pkg/testutil/containers"
)

// PostgresPipelineSuite runs the refresh, approve and warm cycle against the
// Postgres stores a deployment uses.
type PostgresPipelineSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	outbox   *auditpostgres.Store
	now      time.Time
	ctx      context.Context
}

func TestPostgresPipelineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPipelineSuite))
}

func (s *PostgresPipelineSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.outbox = auditpostgres.New(s.postgres.DB)
}

func (s *PostgresPipelineSuite) SetupTest() {
	s.now = time.Now().UTC().Truncate(time.Microsecond)
	base := requestcontext.WithTime(context.Background(), s.now)
	tables := append([]string{"outbox"}, containers.FixtureTables...)
	s.Require().NoError(s.postgres.TruncateTables(base, tables...))

	s.Require().NoError(s.postgres.SeedWard(base, containers.CompliantWard("79700001", s.now)))
	missingSRPA := containers.CompliantWard("79700002", s.now)
	missingSRPA.SRPA = 0
	s.Require().NoError(s.postgres.SeedWard(base, missingSRPA))

	s.ctx = requestcontext.WithActor(base, requestcontext.ActorInfo{
		ID:   "member-42",
		Name: "N. Mthembu",
		Role: "provincial_secretary",
	})
	s.ctx = requestcontext.WithClientMetadata(s.ctx, "198.51.100.7", chromeOnMac)
}

// services wires a fresh process against the shared database.
func (s *PostgresPipelineSuite) services() (*snapshot.Service, *approval.Service) {
	db := s.postgres.DB
	geo := geostore.NewPostgres(db)
	fs := factstore.NewPostgres(db)
	records := approvalstore.NewPostgres(db)

	gatherer := facts.NewGatherer(geo, fs, fs, fs, fs, facts.WithLogger(discard))
	snaps := snapshot.New(geo, gatherer, approval.NewLookup(records), snapstore.NewPostgres(db),
		compliance.DefaultPolicy(), snapshot.WithLogger(discard))
	svc := approval.New(records, approvalstore.NewPostgresTx(db), snaps,
		publisher.New(s.outbox, publisher.WithLogger(discard)),
		approval.WithLogger(discard),
	)
	return snaps, svc
}

func (s *PostgresPipelineSuite) pendingTypes() []string {
	entries, err := s.outbox.Pending(s.ctx, 10)
	s.Require().NoError(err)
	var types []string
	for _, e := range entries {
		types = append(types, e.EventType)
	}
	return types
}

func (s *PostgresPipelineSuite) TestApproveAndWarm() {
	snaps, svc := s.services()
	summary, err := snaps.RefreshAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, summary.Refreshed)

	res, err := svc.Approve(s.ctx, "79700001", approval.Input{Notes: "verified"})
	s.Require().NoError(err)
	s.Require().NotNil(res.Snapshot)
	s.True(res.Snapshot.IsCompliant)

	_, err = svc.Approve(s.ctx, "79700002", approval.Input{})
	s.True(dErrors.HasCode(err, dErrors.CodeCriteriaNotMet))

	s.ElementsMatch([]string{"ward_approved", "approval_denied"}, s.pendingTypes())

	// A restarted process serves the approved snapshot before any refresh.
	restarted, _ := s.services()
	n, err := restarted.Warm(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
	s.True(restarted.Ready())
	snap, ok := restarted.Cached("79700001")
	s.Require().True(ok)
	s.True(snap.IsCompliant)
	s.Require().NotNil(snap.ApprovalID)
	s.Equal(res.Record.ID, *snap.ApprovalID)
}

func (s *PostgresPipelineSuite) TestApprovalSurvivesDelegateWithdrawal() {
	snaps, svc := s.services()
	_, err := snaps.RefreshAll(s.ctx)
	s.Require().NoError(err)
	_, err = svc.Approve(s.ctx, "79700001", approval.Input{})
	s.Require().NoError(err)

	s.Require().NoError(containers.WithdrawDelegates(s.ctx, s.postgres.DB, "79700001", s.now.Add(-time.Minute)))
	entry, err := snaps.RefreshWard(s.ctx, "79700001")
	s.Require().NoError(err)
	s.True(entry.Snapshot.IsCompliant)
	s.Equal(compliance.StatusApproved, entry.Snapshot.ApprovalStatus)
}
