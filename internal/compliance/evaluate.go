package compliance

import (
	"cmp"
	"math"
	"slices"

	"wardaudit/internal/facts"
)

// Evaluate runs the five criteria over a fact bundle.
func Evaluate(b *facts.Bundle, p Policy) Criteria {
	return Criteria{
		Membership:       EvaluateMembership(b.Membership, p),
		Growth:           EvaluateGrowth(b.Growth, p),
		MeetingQuorum:    EvaluateMeetingQuorum(b.Meetings, p),
		PresidingOfficer: EvaluatePresidingOfficer(b.Meetings),
		Delegates:        EvaluateDelegates(b.Delegates),
	}
}

// EvaluateMembership is criterion 1. The threshold comparison uses the unrounded
// percentage; only the reported value is rounded.
func EvaluateMembership(m facts.MembershipFacts, p Policy) MembershipResult {
	total := len(m.VotingDistricts)
	compliant := m.CompliantVotingDistricts(p.MinVotingDistrictMembers)

	var pct float64
	if total > 0 {
		pct = float64(compliant) / float64(total) * 100
	}

	return MembershipResult{
		Passed:                   total > 0 && m.TotalActive >= p.MinWardMembers && pct >= p.MinVotingDistrictPercentage,
		TotalMembers:             m.TotalActive,
		VotingDistrictCount:      total,
		CompliantVotingDistricts: compliant,
		CompliancePercentage:     round(pct, 2),
		MinMembers:               p.MinWardMembers,
		MinPercentage:            p.MinVotingDistrictPercentage,
	}
}

// EvaluateGrowth is criterion 2.
func EvaluateGrowth(g facts.GrowthFacts, p Policy) GrowthResult {
	res := GrowthResult{
		PreviousCount: g.Previous,
		CurrentCount:  g.Current,
	}
	switch {
	case g.Previous > 0:
		// Pass on the counts; a small decline can round to zero.
		res.GrowthRate = round(float64(g.Current-g.Previous)/float64(g.Previous)*100, 2)
		res.Passed = g.Current >= g.Previous
	case g.Current > 0:
		res.GrowthRate = p.ZeroBaselineGrowthRate
		res.Passed = res.GrowthRate >= 0
	default:
		res.GrowthRate = 0
		res.Passed = p.EmptyWardGrowthPasses
	}
	return res
}

// EvaluateMeetingQuorum is criterion 3.
func EvaluateMeetingQuorum(mf facts.MeetingFacts, p Policy) MeetingQuorumResult {
	res := MeetingQuorumResult{TotalMeetings: len(mf.Meetings)}

	qualifying := make([]facts.Meeting, 0, len(mf.Meetings))
	for _, m := range mf.Meetings {
		if !m.AchievedQuorum() {
			continue
		}
		if p.RequireVerifiedQuorum && !m.QuorumVerified {
			continue
		}
		qualifying = append(qualifying, m)
	}
	res.MeetingsWithQuorum = len(qualifying)
	if res.TotalMeetings > 0 {
		res.QuorumAchievementRate = round(float64(res.MeetingsWithQuorum)/float64(res.TotalMeetings), 4)
	}
	if latest, ok := mostRecent(qualifying); ok {
		res.Passed = true
		res.LatestQualifying = &MeetingRef{
			MeetingID:      latest.ID,
			MeetingType:    latest.MeetingType,
			MeetingDate:    latest.MeetingDate,
			QuorumRequired: latest.QuorumRequired,
			QuorumAchieved: latest.QuorumAchieved,
		}
	}
	return res
}

// EvaluatePresidingOfficer is criterion 4.
func EvaluatePresidingOfficer(mf facts.MeetingFacts) PresidingOfficerResult {
	var withOfficer []facts.Meeting
	for _, m := range mf.Meetings {
		if m.HasPresidingOfficer() {
			withOfficer = append(withOfficer, m)
		}
	}
	latest, ok := mostRecent(withOfficer)
	if !ok {
		return PresidingOfficerResult{}
	}
	date := latest.MeetingDate
	id := latest.ID
	return PresidingOfficerResult{
		Passed:      true,
		OfficerName: latest.PresidingOfficer.Name,
		MeetingDate: &date,
		MeetingID:   &id,
	}
}

// EvaluateDelegates is criterion 5.
func EvaluateDelegates(d facts.DelegateFacts) DelegateResult {
	res := DelegateResult{
		SRPA: d.Count(facts.TierSRPA),
		PPA:  d.Count(facts.TierPPA),
		NPA:  d.Count(facts.TierNPA),
	}
	res.Passed = res.SRPA >= 1 && res.PPA >= 1 && res.NPA >= 1
	return res
}

// mostRecent picks the latest meeting by date; equal dates resolve by ascending id.
func mostRecent(meetings []facts.Meeting) (facts.Meeting, bool) {
	if len(meetings) == 0 {
		return facts.Meeting{}, false
	}
	sorted := slices.Clone(meetings)
	slices.SortStableFunc(sorted, func(a, b facts.Meeting) int {
		if c := b.MeetingDate.Compare(a.MeetingDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return sorted[0], true
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0 // drops the sign of -0
	}
	return r
}
