// Package compliance evaluates the five ward compliance criteria and aggregates
// them into ward snapshots and regional rollups. Everything here is pure.
package compliance

import (
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
)

// Status is the approval state of a ward.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Approval is what the aggregator needs to know about a ward's approval record.
type Approval struct {
	ID         uuid.UUID
	ApprovedAt time.Time
	ActorName  string
	Criteria   Criteria
}

// Snapshot is the cached evaluation of one ward. Snapshots are immutable once
// built; a refresh replaces the whole value.
type Snapshot struct {
	WardCode         domain.WardCode         `json:"ward_code"`
	WardName         string                  `json:"ward_name"`
	MunicipalityCode domain.MunicipalityCode `json:"municipality_code"`
	DistrictCode     domain.DistrictCode     `json:"district_code"`
	ProvinceCode     domain.ProvinceCode     `json:"province_code"`

	Criteria          Criteria `json:"criteria"`
	AllCriteriaPassed bool     `json:"all_criteria_passed"`
	IsCompliant       bool     `json:"is_compliant"`

	ApprovalStatus Status     `json:"approval_status"`
	ApprovalID     *uuid.UUID `json:"approval_id,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	ApprovedBy     string     `json:"approved_by,omitempty"`

	ComputedAt      time.Time           `json:"computed_at"`
	VotingDistricts []VotingDistrictRow `json:"voting_districts"`
}

// FailedCriteria names the snapshot's failing criteria.
func (s *Snapshot) FailedCriteria() []string {
	return s.Criteria.Failed()
}

// Aggregate combines criterion results into a ward snapshot.
//
// Without an approval the ward is pending and never compliant. With one, the
// policy's ApprovedWardMode decides: freeze reports the criteria recorded at
// approval time, reevaluate keeps the fresh results and requires them to pass.
func Aggregate(
	ward geography.Ward,
	results Criteria,
	districts []VotingDistrictRow,
	approval *Approval,
	p Policy,
	computedAt time.Time,
) *Snapshot {
	snap := &Snapshot{
		WardCode:         ward.Code,
		WardName:         ward.Name,
		MunicipalityCode: ward.MunicipalityCode,
		DistrictCode:     ward.DistrictCode,
		ProvinceCode:     ward.ProvinceCode,
		Criteria:         results,
		ApprovalStatus:   StatusPending,
		ComputedAt:       computedAt.UTC(),
		VotingDistricts:  districts,
	}
	if snap.VotingDistricts == nil {
		snap.VotingDistricts = []VotingDistrictRow{}
	}

	if approval != nil {
		if p.ApprovedWardMode != ApprovedWardReevaluate {
			snap.Criteria = approval.Criteria
		}
		id := approval.ID
		at := approval.ApprovedAt.UTC()
		snap.ApprovalStatus = StatusApproved
		snap.ApprovalID = &id
		snap.ApprovedAt = &at
		snap.ApprovedBy = approval.ActorName
	}

	snap.AllCriteriaPassed = snap.Criteria.AllPassed()
	snap.IsCompliant = approval != nil && snap.AllCriteriaPassed
	return snap
}

// VotingDistrictRows derives voting-district compliance from membership facts.
func VotingDistrictRows(m facts.MembershipFacts, p Policy) []VotingDistrictRow {
	rows := make([]VotingDistrictRow, 0, len(m.VotingDistricts))
	for _, vd := range m.VotingDistricts {
		rows = append(rows, VotingDistrictRow{
			Code:        vd.Code,
			Name:        vd.Name,
			MemberCount: vd.Members,
			IsCompliant: vd.Members >= p.MinVotingDistrictMembers,
		})
	}
	return rows
}

// BuildSnapshot evaluates a bundle and aggregates it in one step.
func BuildSnapshot(b *facts.Bundle, approval *Approval, p Policy, computedAt time.Time) *Snapshot {
	return Aggregate(
		b.Ward,
		Evaluate(b, p),
		VotingDistrictRows(b.Membership, p),
		approval,
		p,
		computedAt,
	)
}
