package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
)

// DemoVotingDistrictMembers is the active membership per voting district of a
// demo ward: 120 members, four of six districts at or above ten.
var DemoVotingDistrictMembers = []int{35, 30, 25, 20, 6, 4}

// DemoScenario describes the facts seeded for one demo ward.
type DemoScenario struct {
	Ward geography.Ward
	// RecentJoiners of the ward's members joined inside the growth period.
	RecentJoiners  int
	SRPA, PPA, NPA int
}

// SeedDemoWard seeds members, one quorate meeting chaired by J. Dlamini and the
// scenario's delegates, relative to now.
func SeedDemoWard(s *InMemory, sc DemoScenario, now time.Time) {
	longAgo := now.AddDate(-1, -1, 0)
	recently := now.AddDate(0, 0, -30)

	joined := 0
	total := 0
	for _, n := range DemoVotingDistrictMembers {
		total += n
	}
	for i, vd := range sc.Ward.VotingDistricts {
		if i >= len(DemoVotingDistrictMembers) {
			break
		}
		for range DemoVotingDistrictMembers[i] {
			joinedAt := longAgo
			if joined >= total-sc.RecentJoiners {
				joinedAt = recently
			}
			s.AddMember(Member{
				WardCode:           sc.Ward.Code,
				VotingDistrictCode: vd.Code,
				Status:             facts.MembershipActive,
				JoinedAt:           joinedAt,
			})
			joined++
		}
	}
	// Inactive and suspended members never count.
	s.AddMember(Member{WardCode: sc.Ward.Code, VotingDistrictCode: sc.Ward.VotingDistricts[0].Code, Status: facts.MembershipInactive, JoinedAt: longAgo})
	s.AddMember(Member{WardCode: sc.Ward.Code, VotingDistrictCode: sc.Ward.VotingDistricts[0].Code, Status: facts.MembershipSuspended, JoinedAt: longAgo})

	_ = s.RecordMeeting(context.Background(), &facts.Meeting{
		ID:               uuid.NewSHA1(uuid.NameSpaceOID, []byte("meeting:"+sc.Ward.Code.String())),
		WardCode:         sc.Ward.Code,
		MeetingType:      "branch_general_meeting",
		MeetingDate:      now.AddDate(0, -2, 0),
		QuorumRequired:   50,
		QuorumAchieved:   55,
		PresidingOfficer: &facts.Officer{MemberID: "member-0001", Name: "J. Dlamini"},
		Secretary:        &facts.Officer{MemberID: "member-0002", Name: "P. Mokoena"},
		QuorumVerified:   true,
		Verified:         true,
		CreatedAt:        now.AddDate(0, -2, 0),
	})

	assign := func(tier facts.Tier, n int) {
		for range n {
			s.AssignDelegate(Delegate{WardCode: sc.Ward.Code, Tier: tier, MemberID: uuid.New(), AssignedAt: longAgo})
		}
	}
	assign(facts.TierSRPA, sc.SRPA)
	assign(facts.TierPPA, sc.PPA)
	assign(facts.TierNPA, sc.NPA)
}

// DemoWards returns the two demo scenarios: a ward meeting every criterion and
// one without SRPA delegates.
func DemoWards(first, second geography.Ward) []DemoScenario {
	return []DemoScenario{
		{Ward: first, RecentJoiners: 20, SRPA: 2, PPA: 1, NPA: 1},
		{Ward: second, RecentJoiners: 20, SRPA: 0, PPA: 1, NPA: 1},
	}
}

// MemberCount returns the active members seeded for a ward, for assertions.
func (s *InMemory) MemberCount(ward domain.WardCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.members[ward] {
		if m.Status == facts.MembershipActive {
			n++
		}
	}
	return n
}
