package handler

import (
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/approval"
	"wardaudit/internal/compliance"
	"wardaudit/internal/snapshot"
	"wardaudit/pkg/domain"
)

// WardRow is one ward in a municipality listing. Wards that have not been
// evaluated yet carry only their identity.
type WardRow struct {
	WardCode          domain.WardCode   `json:"ward_code"`
	WardName          string            `json:"ward_name"`
	Evaluated         bool              `json:"evaluated"`
	AllCriteriaPassed bool              `json:"all_criteria_passed"`
	IsCompliant       bool              `json:"is_compliant"`
	ApprovalStatus    compliance.Status `json:"approval_status,omitempty"`
	FailedCriteria    []string          `json:"failed_criteria,omitempty"`
	ComputedAt        *time.Time        `json:"computed_at,omitempty"`
}

func toWardRow(mw snapshot.MunicipalityWard) WardRow {
	row := WardRow{WardCode: mw.Ward.Code, WardName: mw.Ward.Name}
	if s := mw.Snapshot; s != nil {
		computed := s.ComputedAt
		row.Evaluated = true
		row.AllCriteriaPassed = s.AllCriteriaPassed
		row.IsCompliant = s.IsCompliant
		row.ApprovalStatus = s.ApprovalStatus
		row.FailedCriteria = s.FailedCriteria()
		row.ComputedAt = &computed
	}
	return row
}

// ComplianceSummary is the ward-level compliance view.
type ComplianceSummary struct {
	WardCode          domain.WardCode         `json:"ward_code"`
	WardName          string                  `json:"ward_name"`
	MunicipalityCode  domain.MunicipalityCode `json:"municipality_code"`
	ProvinceCode      domain.ProvinceCode     `json:"province_code"`
	AllCriteriaPassed bool                    `json:"all_criteria_passed"`
	IsCompliant       bool                    `json:"is_compliant"`
	ApprovalStatus    compliance.Status       `json:"approval_status"`
	ApprovedAt        *time.Time              `json:"approved_at,omitempty"`
	ApprovedBy        string                  `json:"approved_by,omitempty"`
	CriteriaPassed    map[string]bool         `json:"criteria_passed"`
	FailedCriteria    []string                `json:"failed_criteria"`
	ComputedAt        time.Time               `json:"computed_at"`
	Version           uint64                  `json:"version"`
}

func toSummary(e *snapshot.Entry) ComplianceSummary {
	s := e.Snapshot
	flags := s.Criteria.PassedFlags()
	passed := make(map[string]bool, len(flags))
	for i, name := range []string{
		compliance.CriterionMembership,
		compliance.CriterionGrowth,
		compliance.CriterionMeetingQuorum,
		compliance.CriterionPresidingOfficer,
		compliance.CriterionDelegates,
	} {
		passed[name] = flags[i]
	}
	return ComplianceSummary{
		WardCode:          s.WardCode,
		WardName:          s.WardName,
		MunicipalityCode:  s.MunicipalityCode,
		ProvinceCode:      s.ProvinceCode,
		AllCriteriaPassed: s.AllCriteriaPassed,
		IsCompliant:       s.IsCompliant,
		ApprovalStatus:    s.ApprovalStatus,
		ApprovedAt:        s.ApprovedAt,
		ApprovedBy:        s.ApprovedBy,
		CriteriaPassed:    passed,
		FailedCriteria:    s.FailedCriteria(),
		ComputedAt:        s.ComputedAt,
		Version:           e.Version,
	}
}

// ComplianceDetails adds the full criterion breakdown to the summary.
type ComplianceDetails struct {
	ComplianceSummary
	Criteria compliance.Criteria `json:"criteria"`
}

// ApprovalResponse reports the ward's state after an approval.
type ApprovalResponse struct {
	WardCode       domain.WardCode   `json:"ward_code"`
	ApprovalID     uuid.UUID         `json:"approval_id"`
	ApprovalStatus compliance.Status `json:"approval_status"`
	ApprovedAt     time.Time         `json:"approved_at"`
	ApprovedBy     string            `json:"approved_by"`
	// IsCompliant is omitted when the post-approval refresh did not complete.
	IsCompliant *bool `json:"is_compliant,omitempty"`
}

func toApprovalResponse(res *approval.Result) ApprovalResponse {
	out := ApprovalResponse{
		WardCode:       res.Record.WardCode,
		ApprovalID:     res.Record.ID,
		ApprovalStatus: compliance.StatusApproved,
		ApprovedAt:     res.Record.ApprovedAt,
		ApprovedBy:     res.Record.ActorName,
	}
	if res.Snapshot != nil {
		compliant := res.Snapshot.IsCompliant
		out.IsCompliant = &compliant
	}
	return out
}

// MeetingResponse carries the id of a recorded meeting.
type MeetingResponse struct {
	MeetingID uuid.UUID `json:"meeting_id"`
}

// WardRefreshResponse reports a single-ward admin refresh.
type WardRefreshResponse struct {
	WardCode          domain.WardCode `json:"ward_code"`
	AllCriteriaPassed bool            `json:"all_criteria_passed"`
	IsCompliant       bool            `json:"is_compliant"`
	ComputedAt        time.Time       `json:"computed_at"`
	Version           uint64          `json:"version"`
}
