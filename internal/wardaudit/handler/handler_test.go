package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"wardaudit/internal/approval"
	"wardaudit/internal/compliance"
	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/wardaudit/handler/mocks"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	authmw "wardaudit/pkg/platform/middleware/auth"
	"wardaudit/pkg/testutil"
)

const (
	validToken = "valid-token"
	adminToken = "admin-secret"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if token != validToken {
		return nil, errors.New("invalid token")
	}
	return &authmw.JWTClaims{UserID: "member-42", Name: "N. Mthembu", Role: "national_secretary"}, nil
}

type HandlerSuite struct {
	suite.Suite
	snapshots *mocks.MockSnapshots
	rollups   *mocks.MockRollups
	approver  *mocks.MockApprover
	meetings  *mocks.MockMeetingRecorder
	auditor   *mocks.MockAuditPublisher
	router    chi.Router
	computed  time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.snapshots = mocks.NewMockSnapshots(ctrl)
	s.rollups = mocks.NewMockRollups(ctrl)
	s.approver = mocks.NewMockApprover(ctrl)
	s.meetings = mocks.NewMockMeetingRecorder(ctrl)
	s.auditor = mocks.NewMockAuditPublisher(ctrl)
	s.computed = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	h := New(s.snapshots, s.rollups, s.approver, s.meetings, stubValidator{},
		WithLogger(slog.New(slog.DiscardHandler)),
		WithAdminToken(adminToken),
		WithAuditPublisher(s.auditor),
	)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) do(req *http.Request) *httpResponse {
	if req.Header.Get("X-Admin-Token") == "" {
		testutil.WithBearer(req, validToken)
	}
	rr := testutil.DoRequest(s.router, req)
	return &httpResponse{code: rr.Code, body: rr.Body.Bytes()}
}

type httpResponse struct {
	code int
	body []byte
}

func (r *httpResponse) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(r.body, &out); err != nil {
		t.Fatalf("decode response %q: %v", r.body, err)
	}
	return out
}

func (s *HandlerSuite) snapshotEntry(passed bool) *snapshot.Entry {
	snap := &compliance.Snapshot{
		WardCode:          "79700001",
		WardName:          "Ward 1",
		MunicipalityCode:  "JHB",
		ProvinceCode:      "GT",
		AllCriteriaPassed: passed,
		ApprovalStatus:    compliance.StatusPending,
		ComputedAt:        s.computed,
		VotingDistricts: []compliance.VotingDistrictRow{
			{Code: "97000001", Name: "VD 1", MemberCount: 20, IsCompliant: true},
		},
	}
	snap.Criteria.Membership.Passed = passed
	snap.Criteria.Growth.Passed = true
	snap.Criteria.MeetingQuorum.Passed = true
	snap.Criteria.PresidingOfficer.Passed = true
	snap.Criteria.Delegates.Passed = passed
	return &snapshot.Entry{Snapshot: snap, Version: 7}
}

func (s *HandlerSuite) TestListWards() {
	s.Run("missing municipality code is rejected", func() {
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/wards"))
		s.Equal(http.StatusBadRequest, resp.code)
		s.Equal("invalid_input", resp.json(s.T())["error"])
	})

	s.Run("lists evaluated and unevaluated wards", func() {
		entry := s.snapshotEntry(true)
		s.rollups.EXPECT().MunicipalityWards(gomock.Any(), domain.MunicipalityCode("JHB")).Return([]snapshot.MunicipalityWard{
			{Ward: &geography.Ward{Code: "79700001", Name: "Ward 1"}, Snapshot: entry.Snapshot},
			{Ward: &geography.Ward{Code: "79700002", Name: "Ward 2"}},
		}, nil)

		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/wards?municipality_code=JHB"))
		s.Require().Equal(http.StatusOK, resp.code)

		var rows []map[string]any
		s.Require().NoError(json.Unmarshal(resp.body, &rows))
		s.Require().Len(rows, 2)
		s.Equal(true, rows[0]["evaluated"])
		s.Equal(true, rows[0]["all_criteria_passed"])
		s.Equal(false, rows[1]["evaluated"])
		s.NotContains(rows[1], "computed_at")
	})

	s.Run("unknown municipality", func() {
		s.rollups.EXPECT().MunicipalityWards(gomock.Any(), domain.MunicipalityCode("CPT")).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "municipality CPT not found"))
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/wards?municipality_code=CPT"))
		s.Equal(http.StatusNotFound, resp.code)
	})
}

func (s *HandlerSuite) TestCompliance() {
	s.Run("summary honours max_age", func() {
		s.snapshots.EXPECT().Get(gomock.Any(), domain.WardCode("79700001"), 5*time.Minute).Return(s.snapshotEntry(false), nil)

		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700001/compliance?max_age=300"))
		s.Require().Equal(http.StatusOK, resp.code)
		body := resp.json(s.T())
		s.Equal("79700001", body["ward_code"])
		s.Equal(false, body["all_criteria_passed"])
		s.Equal("pending", body["approval_status"])
		s.Equal([]any{"criterion_1", "criterion_5"}, body["failed_criteria"])
		s.Equal(float64(7), body["version"])
		s.NotContains(body, "criteria")
	})

	s.Run("details include the breakdown", func() {
		s.snapshots.EXPECT().Get(gomock.Any(), domain.WardCode("79700001"), time.Duration(0)).Return(s.snapshotEntry(true), nil)

		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700001/compliance/details"))
		s.Require().Equal(http.StatusOK, resp.code)
		criteria, ok := resp.json(s.T())["criteria"].(map[string]any)
		s.Require().True(ok)
		s.Contains(criteria, "criterion_1")
		s.Contains(criteria, "criterion_5")
	})

	s.Run("invalid max_age", func() {
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700001/compliance?max_age=soon"))
		s.Equal(http.StatusBadRequest, resp.code)
	})

	s.Run("unknown ward", func() {
		s.snapshots.EXPECT().Get(gomock.Any(), domain.WardCode("99999999"), time.Duration(0)).
			Return(nil, dErrors.New(dErrors.CodeUnknownWard, "ward 99999999 does not exist"))
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/99999999/compliance"))
		s.Equal(http.StatusNotFound, resp.code)
		s.Equal("unknown_ward", resp.json(s.T())["error"])
	})

	s.Run("no snapshot available", func() {
		s.snapshots.EXPECT().Get(gomock.Any(), domain.WardCode("79700002"), time.Duration(0)).
			Return(nil, dErrors.New(dErrors.CodeSnapshotUnavailable, "no snapshot available"))
		resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700002/compliance"))
		s.Equal(http.StatusServiceUnavailable, resp.code)
		s.Equal("stale_snapshot_unavailable", resp.json(s.T())["error"])
	})

	s.Run("requires a bearer token", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700001/compliance")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *HandlerSuite) TestVotingDistricts() {
	s.snapshots.EXPECT().Get(gomock.Any(), domain.WardCode("79700001"), time.Duration(0)).Return(s.snapshotEntry(true), nil)

	resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/ward/79700001/voting-districts"))
	s.Require().Equal(http.StatusOK, resp.code)
	var rows []compliance.VotingDistrictRow
	s.Require().NoError(json.Unmarshal(resp.body, &rows))
	s.Require().Len(rows, 1)
	s.Equal(20, rows[0].MemberCount)
}

func (s *HandlerSuite) TestApprove() {
	s.Run("approved", func() {
		entry := s.snapshotEntry(true)
		entry.Snapshot.IsCompliant = true
		recordID := uuid.New()
		s.approver.EXPECT().Approve(gomock.Any(), domain.WardCode("79700001"), approval.Input{Notes: "site visit"}).
			Return(&approval.Result{
				Record:   &approval.Record{ID: recordID, WardCode: "79700001", ActorName: "N. Mthembu", ApprovedAt: s.computed},
				Snapshot: entry.Snapshot,
			}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700001/approve", ApproveRequest{Notes: "site visit"})
		resp := s.do(req)
		s.Require().Equal(http.StatusOK, resp.code)
		body := resp.json(s.T())
		s.Equal(recordID.String(), body["approval_id"])
		s.Equal("approved", body["approval_status"])
		s.Equal(true, body["is_compliant"])
	})

	s.Run("criteria not met lists failures", func() {
		s.approver.EXPECT().Approve(gomock.Any(), domain.WardCode("79700002"), approval.Input{}).
			Return(nil, dErrors.New(dErrors.CodeCriteriaNotMet, "ward does not meet all compliance criteria").
				WithField("failed_criteria", []string{"criterion_5"}))

		resp := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700002/approve"))
		s.Equal(http.StatusConflict, resp.code)
		body := resp.json(s.T())
		s.Equal("criteria_not_met", body["error"])
		s.Equal([]any{"criterion_5"}, body["failed_criteria"])
	})

	s.Run("already compliant", func() {
		s.approver.EXPECT().Approve(gomock.Any(), domain.WardCode("79700001"), approval.Input{}).
			Return(nil, dErrors.New(dErrors.CodeAlreadyCompliant, "ward is already approved"))
		resp := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700001/approve"))
		s.Equal(http.StatusConflict, resp.code)
		s.Equal("already_compliant", resp.json(s.T())["error"])
	})

	s.Run("forbidden role", func() {
		s.approver.EXPECT().Approve(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "role cannot approve wards"))
		resp := s.do(testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700001/approve"))
		s.Equal(http.StatusForbidden, resp.code)
	})

	s.Run("unknown body fields are rejected", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/ward-audit/ward/79700001/approve", `{"approved":true}`)
		resp := s.do(req)
		s.Equal(http.StatusBadRequest, resp.code)
	})
}

func (s *HandlerSuite) TestRecordMeeting() {
	s.Run("created", func() {
		id := uuid.New()
		s.meetings.EXPECT().RecordMeeting(gomock.Any(), domain.WardCode("79700001"), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.WardCode, in facts.MeetingInput) (*facts.Meeting, error) {
				s.Equal("BGM", in.MeetingType)
				s.Equal(time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC), in.MeetingDate)
				s.Require().NotNil(in.PresidingOfficer)
				s.Equal("J. Dlamini", in.PresidingOfficer.Name)
				return &facts.Meeting{ID: id}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700001/meeting", RecordMeetingRequest{
			MeetingType:      "BGM",
			MeetingDate:      "2026-05-20",
			QuorumRequired:   50,
			QuorumAchieved:   61,
			PresidingOfficer: &OfficerRequest{MemberID: "m-1", Name: "J. Dlamini"},
		})
		resp := s.do(req)
		s.Require().Equal(http.StatusCreated, resp.code)
		s.Equal(id.String(), resp.json(s.T())["meeting_id"])
	})

	s.Run("bad date never reaches the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/ward-audit/ward/79700001/meeting", RecordMeetingRequest{
			MeetingType: "BGM",
			MeetingDate: "20 May",
		})
		resp := s.do(req)
		s.Equal(http.StatusBadRequest, resp.code)
		s.Equal("validation_error", resp.json(s.T())["error"])
	})
}

func (s *HandlerSuite) TestRollups() {
	s.rollups.EXPECT().National(gomock.Any()).Return(compliance.Rollup{Level: compliance.LevelNational, TotalWards: 2, CriteriaPassedWards: 1})
	resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/rollup/national"))
	s.Require().Equal(http.StatusOK, resp.code)
	s.Equal(float64(2), resp.json(s.T())["total_wards"])

	s.rollups.EXPECT().Province(gomock.Any(), domain.ProvinceCode("GT")).Return(compliance.Rollup{Level: compliance.LevelProvince, Code: "GT"}, nil)
	resp = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/rollup/province/gt"))
	s.Equal(http.StatusOK, resp.code)

	s.rollups.EXPECT().Municipality(gomock.Any(), domain.MunicipalityCode("CPT")).
		Return(compliance.Rollup{}, dErrors.New(dErrors.CodeNotFound, "municipality CPT not found"))
	resp = s.do(testutil.NewRequest(s.T(), http.MethodGet, "/ward-audit/rollup/municipality/CPT"))
	s.Equal(http.StatusNotFound, resp.code)
}

func (s *HandlerSuite) TestAdminRefresh() {
	s.Run("requires the admin token", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/admin/refresh")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("refreshes every ward", func() {
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.snapshots.EXPECT().RefreshAll(gomock.Any()).Return(&snapshot.RefreshSummary{Total: 2, Refreshed: 2}, nil)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/admin/refresh")
		req.Header.Set("X-Admin-Token", adminToken)
		resp := s.do(req)
		s.Require().Equal(http.StatusOK, resp.code)
		s.Equal(float64(2), resp.json(s.T())["refreshed"])
	})

	s.Run("refreshes one ward", func() {
		s.auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))
		s.snapshots.EXPECT().RefreshWard(gomock.Any(), domain.WardCode("79700001")).Return(s.snapshotEntry(true), nil)

		req := testutil.NewRequest(s.T(), http.MethodPost, "/ward-audit/admin/refresh?ward=79700001")
		req.Header.Set("X-Admin-Token", adminToken)
		resp := s.do(req)
		s.Require().Equal(http.StatusOK, resp.code)
		body := resp.json(s.T())
		s.Equal("79700001", body["ward_code"])
		s.Equal(float64(7), body["version"])
	})
}

func TestParseMaxAge(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "90", want: 90 * time.Second},
		{in: "15m", want: 15 * time.Minute},
		{in: "-5", wantErr: true},
		{in: "-1m", wantErr: true},
		{in: "later", wantErr: true},
	} {
		got, err := parseMaxAge(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseMaxAge(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("parseMaxAge(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}
