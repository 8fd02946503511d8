package compliance

import (
	"time"

	"github.com/google/uuid"

	"wardaudit/pkg/domain"
)

// Criterion names reported in failed_criteria.
const (
	CriterionMembership       = "criterion_1"
	CriterionGrowth           = "criterion_2"
	CriterionMeetingQuorum    = "criterion_3"
	CriterionPresidingOfficer = "criterion_4"
	CriterionDelegates        = "criterion_5"
)

// MembershipResult is criterion 1: membership and voting-district coverage.
type MembershipResult struct {
	Passed                   bool    `json:"passed"`
	TotalMembers             int     `json:"total_members"`
	VotingDistrictCount      int     `json:"voting_district_count"`
	CompliantVotingDistricts int     `json:"compliant_voting_districts"`
	CompliancePercentage     float64 `json:"compliance_percentage"`
	MinMembers               int     `json:"min_members"`
	MinPercentage            float64 `json:"min_percentage"`
}

// GrowthResult is criterion 2: membership growth between periods.
type GrowthResult struct {
	Passed        bool    `json:"passed"`
	PreviousCount int     `json:"previous_count"`
	CurrentCount  int     `json:"current_count"`
	GrowthRate    float64 `json:"growth_rate"`
}

// MeetingRef identifies the meeting that satisfied a meeting criterion.
type MeetingRef struct {
	MeetingID      uuid.UUID `json:"meeting_id"`
	MeetingType    string    `json:"meeting_type"`
	MeetingDate    time.Time `json:"meeting_date"`
	QuorumRequired int       `json:"quorum_required"`
	QuorumAchieved int       `json:"quorum_achieved"`
}

// MeetingQuorumResult is criterion 3: at least one quorate meeting.
type MeetingQuorumResult struct {
	Passed                bool        `json:"passed"`
	TotalMeetings         int         `json:"total_meetings"`
	MeetingsWithQuorum    int         `json:"meetings_with_quorum"`
	QuorumAchievementRate float64     `json:"quorum_achievement_rate"`
	LatestQualifying      *MeetingRef `json:"latest_qualifying_meeting,omitempty"`
}

// PresidingOfficerResult is criterion 4: a presiding officer of record.
type PresidingOfficerResult struct {
	Passed      bool       `json:"passed"`
	OfficerName string     `json:"presiding_officer_name,omitempty"`
	MeetingDate *time.Time `json:"meeting_date,omitempty"`
	MeetingID   *uuid.UUID `json:"meeting_id,omitempty"`
}

// DelegateResult is criterion 5: delegates for every assembly tier.
type DelegateResult struct {
	Passed bool `json:"passed"`
	SRPA   int  `json:"srpa_delegates"`
	PPA    int  `json:"ppa_delegates"`
	NPA    int  `json:"npa_delegates"`
}

// Criteria are the five typed criterion results of one evaluation.
type Criteria struct {
	Membership       MembershipResult       `json:"criterion_1"`
	Growth           GrowthResult           `json:"criterion_2"`
	MeetingQuorum    MeetingQuorumResult    `json:"criterion_3"`
	PresidingOfficer PresidingOfficerResult `json:"criterion_4"`
	Delegates        DelegateResult         `json:"criterion_5"`
}

// AllPassed is the AND of the five criteria.
func (c Criteria) AllPassed() bool {
	return c.Membership.Passed &&
		c.Growth.Passed &&
		c.MeetingQuorum.Passed &&
		c.PresidingOfficer.Passed &&
		c.Delegates.Passed
}

// Failed names the failing criteria in criterion order.
func (c Criteria) Failed() []string {
	failed := []string{}
	if !c.Membership.Passed {
		failed = append(failed, CriterionMembership)
	}
	if !c.Growth.Passed {
		failed = append(failed, CriterionGrowth)
	}
	if !c.MeetingQuorum.Passed {
		failed = append(failed, CriterionMeetingQuorum)
	}
	if !c.PresidingOfficer.Passed {
		failed = append(failed, CriterionPresidingOfficer)
	}
	if !c.Delegates.Passed {
		failed = append(failed, CriterionDelegates)
	}
	return failed
}

// PassedFlags returns the pass flags indexed 0..4 for criteria 1..5.
func (c Criteria) PassedFlags() [5]bool {
	return [5]bool{
		c.Membership.Passed,
		c.Growth.Passed,
		c.MeetingQuorum.Passed,
		c.PresidingOfficer.Passed,
		c.Delegates.Passed,
	}
}

// VotingDistrictRow is the voting-district level compliance of a snapshot.
type VotingDistrictRow struct {
	Code        domain.VotingDistrictCode `json:"voting_district_code"`
	Name        string                    `json:"voting_district_name"`
	MemberCount int                       `json:"member_count"`
	IsCompliant bool                      `json:"is_compliant"`
}
