// Package facts gathers the read-only inputs of a ward compliance evaluation:
// membership counts, growth history, meetings and delegate assignments.
package facts

import (
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
)

// MembershipStatus is the lifecycle state of a member. Only active members count.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipPending   MembershipStatus = "pending"
	MembershipSuspended MembershipStatus = "suspended"
)

// Tier is an assembly tier a ward sends delegates to.
type Tier string

const (
	TierSRPA Tier = "SRPA"
	TierPPA  Tier = "PPA"
	TierNPA  Tier = "NPA"
)

// Tiers lists every assembly tier in reporting order.
var Tiers = []Tier{TierSRPA, TierPPA, TierNPA}

// IsValid reports whether t is a known assembly tier.
func (t Tier) IsValid() bool {
	switch t {
	case TierSRPA, TierPPA, TierNPA:
		return true
	}
	return false
}

// VotingDistrictCount is the active membership of one voting district.
type VotingDistrictCount struct {
	Code    domain.VotingDistrictCode
	Name    string
	Members int
}

// MembershipFacts are the active membership counts of a ward at a point in time.
// Every voting district of the ward appears, including those with no members.
type MembershipFacts struct {
	TotalActive     int
	VotingDistricts []VotingDistrictCount
}

// CompliantVotingDistricts counts voting districts with at least minMembers active members.
func (m MembershipFacts) CompliantVotingDistricts(minMembers int) int {
	n := 0
	for _, vd := range m.VotingDistricts {
		if vd.Members >= minMembers {
			n++
		}
	}
	return n
}

// GrowthFacts compares active membership at the end of two consecutive periods.
type GrowthFacts struct {
	Current        int
	Previous       int
	CurrentAsOf    time.Time
	PreviousAsOf   time.Time
	PeriodDuration time.Duration
}

// Officer is a member holding a meeting office.
type Officer struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// Meeting is a recorded ward meeting.
type Meeting struct {
	ID               uuid.UUID
	WardCode         domain.WardCode
	MeetingType      string
	MeetingDate      time.Time
	QuorumRequired   int
	QuorumAchieved   int
	PresidingOfficer *Officer
	Secretary        *Officer
	QuorumVerified   bool
	Verified         bool
	RecordedBy       string
	CreatedAt        time.Time
}

// AchievedQuorum reports whether attendance met the required quorum.
func (m *Meeting) AchievedQuorum() bool {
	return m.QuorumAchieved >= m.QuorumRequired
}

// HasPresidingOfficer reports whether the meeting names a presiding officer.
func (m *Meeting) HasPresidingOfficer() bool {
	return m.PresidingOfficer != nil && m.PresidingOfficer.Name != ""
}

// MeetingFacts are the ward's meetings inside the evaluation window.
type MeetingFacts struct {
	Meetings    []Meeting
	WindowStart time.Time // zero when the window is disabled
	WindowEnd   time.Time
}

// DelegateFacts are the assigned delegate counts per assembly tier.
type DelegateFacts struct {
	Counts map[Tier]int
}

// Count returns the number of delegates for tier.
func (d DelegateFacts) Count(t Tier) int {
	return d.Counts[t]
}

// Bundle carries every fact a ward evaluation needs, gathered at one instant.
type Bundle struct {
	Ward       geography.Ward
	AsOf       time.Time
	Membership MembershipFacts
	Growth     GrowthFacts
	Meetings   MeetingFacts
	Delegates  DelegateFacts
}

// Windows configures the time ranges facts are gathered over.
type Windows struct {
	// GrowthPeriod separates the current and previous membership counts.
	GrowthPeriod time.Duration
	// MeetingWindow bounds how far back meetings count. Zero disables the bound.
	MeetingWindow time.Duration
}

// DefaultWindows returns a 90-day growth period and a 365-day meeting window.
func DefaultWindows() Windows {
	return Windows{
		GrowthPeriod:  90 * 24 * time.Hour,
		MeetingWindow: 365 * 24 * time.Hour,
	}
}
