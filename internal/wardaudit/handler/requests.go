package handler

import (
	"strconv"
	"strings"
	"time"

	"wardaudit/internal/approval"
	"wardaudit/internal/facts"
	dErrors "wardaudit/pkg/domain-errors"
)

// ApproveRequest is the optional body of an approval.
type ApproveRequest struct {
	Notes string `json:"notes"`
}

func (r ApproveRequest) toInput() (approval.Input, error) {
	if len(r.Notes) > maxNotesLength {
		return approval.Input{}, dErrors.New(dErrors.CodeValidation, "notes is too long")
	}
	return approval.Input{Notes: r.Notes}, nil
}

const maxNotesLength = 2000

// OfficerRequest names a meeting officer.
type OfficerRequest struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// RecordMeetingRequest is a meeting submission.
type RecordMeetingRequest struct {
	MeetingType      string          `json:"meeting_type"`
	MeetingDate      string          `json:"meeting_date"`
	QuorumRequired   int             `json:"quorum_required"`
	QuorumAchieved   int             `json:"quorum_achieved"`
	PresidingOfficer *OfficerRequest `json:"presiding_officer,omitempty"`
	Secretary        *OfficerRequest `json:"secretary,omitempty"`
	QuorumVerified   bool            `json:"quorum_verified"`
	Verified         bool            `json:"verified"`
}

func (r RecordMeetingRequest) toInput() (facts.MeetingInput, error) {
	date, err := parseMeetingDate(r.MeetingDate)
	if err != nil {
		return facts.MeetingInput{}, err
	}
	return facts.MeetingInput{
		MeetingType:      r.MeetingType,
		MeetingDate:      date,
		QuorumRequired:   r.QuorumRequired,
		QuorumAchieved:   r.QuorumAchieved,
		PresidingOfficer: r.PresidingOfficer.toOfficer(),
		Secretary:        r.Secretary.toOfficer(),
		QuorumVerified:   r.QuorumVerified,
		Verified:         r.Verified,
	}, nil
}

func (o *OfficerRequest) toOfficer() *facts.Officer {
	if o == nil {
		return nil
	}
	return &facts.Officer{MemberID: o.MemberID, Name: o.Name}
}

// parseMeetingDate accepts RFC 3339 timestamps and plain dates.
func parseMeetingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "meeting_date is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeValidation, "meeting_date must be RFC 3339 or YYYY-MM-DD")
}

// RefreshRequest optionally narrows an admin refresh to one ward.
type RefreshRequest struct {
	WardCode string `json:"ward_code"`
}

// parseMaxAge reads the max_age query parameter as a Go duration ("90s",
// "15m") or a number of seconds. Empty means no staleness bound.
func parseMaxAge(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, dErrors.New(dErrors.CodeValidation, "max_age cannot be negative")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, "max_age must be a duration or a number of seconds")
	}
	if d < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "max_age cannot be negative")
	}
	return d, nil
}
