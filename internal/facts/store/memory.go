package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
)

// Member is the subset of a membership row the fact providers count.
type Member struct {
	ID                 uuid.UUID
	WardCode           domain.WardCode
	VotingDistrictCode domain.VotingDistrictCode
	Status             facts.MembershipStatus
	JoinedAt           time.Time
}

// Delegate is an assembly delegate assignment.
type Delegate struct {
	ID          uuid.UUID
	WardCode    domain.WardCode
	Tier        facts.Tier
	MemberID    uuid.UUID
	AssignedAt  time.Time
	WithdrawnAt *time.Time
}

// InMemory implements every fact provider and the meeting store over in-process maps.
type InMemory struct {
	mu        sync.RWMutex
	members   map[domain.WardCode][]Member
	meetings  map[domain.WardCode][]facts.Meeting
	delegates map[domain.WardCode][]Delegate
}

func NewInMemory() *InMemory {
	return &InMemory{
		members:   make(map[domain.WardCode][]Member),
		meetings:  make(map[domain.WardCode][]facts.Meeting),
		delegates: make(map[domain.WardCode][]Delegate),
	}
}

// AddMember registers a member.
func (s *InMemory) AddMember(m Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.members[m.WardCode] = append(s.members[m.WardCode], m)
}

// AssignDelegate registers a delegate assignment.
func (s *InMemory) AssignDelegate(d Delegate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.delegates[d.WardCode] = append(s.delegates[d.WardCode], d)
}

// WithdrawDelegates withdraws every delegate of tier in ward at the given time.
func (s *InMemory) WithdrawDelegates(ward domain.WardCode, tier facts.Tier, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.delegates[ward] {
		d := &s.delegates[ward][i]
		if d.Tier == tier && d.WithdrawnAt == nil {
			t := at
			d.WithdrawnAt = &t
		}
	}
}

func (s *InMemory) RecordMeeting(_ context.Context, m *facts.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[m.WardCode] = append(s.meetings[m.WardCode], *m)
	return nil
}

func (s *InMemory) MembershipFacts(_ context.Context, ward *geography.Ward, asOf time.Time) (facts.MembershipFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perVD := make(map[domain.VotingDistrictCode]int)
	total := 0
	for _, m := range s.members[ward.Code] {
		if !activeAt(m, asOf) {
			continue
		}
		total++
		perVD[m.VotingDistrictCode]++
	}

	out := facts.MembershipFacts{
		TotalActive:     total,
		VotingDistricts: make([]facts.VotingDistrictCount, 0, len(ward.VotingDistricts)),
	}
	for _, vd := range ward.VotingDistricts {
		out.VotingDistricts = append(out.VotingDistricts, facts.VotingDistrictCount{
			Code:    vd.Code,
			Name:    vd.Name,
			Members: perVD[vd.Code],
		})
	}
	return out, nil
}

func (s *InMemory) GrowthFacts(_ context.Context, ward *geography.Ward, asOf time.Time, period time.Duration) (facts.GrowthFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	previousAsOf := asOf.Add(-period)
	out := facts.GrowthFacts{
		CurrentAsOf:    asOf,
		PreviousAsOf:   previousAsOf,
		PeriodDuration: period,
	}
	for _, m := range s.members[ward.Code] {
		if activeAt(m, asOf) {
			out.Current++
		}
		if activeAt(m, previousAsOf) {
			out.Previous++
		}
	}
	return out, nil
}

func (s *InMemory) MeetingFacts(_ context.Context, ward *geography.Ward, from, to time.Time) (facts.MeetingFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := facts.MeetingFacts{WindowStart: from, WindowEnd: to}
	for _, m := range s.meetings[ward.Code] {
		if m.MeetingDate.After(to) {
			continue
		}
		if !from.IsZero() && m.MeetingDate.Before(from) {
			continue
		}
		out.Meetings = append(out.Meetings, cloneMeeting(m))
	}
	return out, nil
}

func (s *InMemory) DelegateFacts(_ context.Context, ward *geography.Ward, asOf time.Time) (facts.DelegateFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := facts.DelegateFacts{Counts: make(map[facts.Tier]int, len(facts.Tiers))}
	for _, t := range facts.Tiers {
		out.Counts[t] = 0
	}
	for _, d := range s.delegates[ward.Code] {
		if d.AssignedAt.After(asOf) {
			continue
		}
		if d.WithdrawnAt != nil && !d.WithdrawnAt.After(asOf) {
			continue
		}
		out.Counts[d.Tier]++
	}
	return out, nil
}

func activeAt(m Member, t time.Time) bool {
	return m.Status == facts.MembershipActive && !m.JoinedAt.After(t)
}

func cloneMeeting(m facts.Meeting) facts.Meeting {
	if m.PresidingOfficer != nil {
		o := *m.PresidingOfficer
		m.PresidingOfficer = &o
	}
	if m.Secretary != nil {
		o := *m.Secretary
		m.Secretary = &o
	}
	return m
}
