package facts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	audit "wardaudit/pkg/platform/audit"
	"wardaudit/pkg/platform/sentinel"
	"wardaudit/pkg/requestcontext"
)

// MeetingStore persists recorded meetings.
type MeetingStore interface {
	RecordMeeting(ctx context.Context, m *Meeting) error
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// MeetingInput is a validated meeting submission.
type MeetingInput struct {
	MeetingType      string
	MeetingDate      time.Time
	QuorumRequired   int
	QuorumAchieved   int
	PresidingOfficer *Officer
	Secretary        *Officer
	QuorumVerified   bool
	Verified         bool
}

// maxMeetingClockSkew tolerates clients slightly ahead of the server clock.
const maxMeetingClockSkew = 24 * time.Hour

// MeetingService records meetings submitted by ward administrators.
type MeetingService struct {
	index   WardIndex
	store   MeetingStore
	auditor AuditPublisher
	logger  *slog.Logger
}

// MeetingServiceOption configures a MeetingService.
type MeetingServiceOption func(*MeetingService)

func WithMeetingLogger(logger *slog.Logger) MeetingServiceOption {
	return func(s *MeetingService) {
		s.logger = logger
	}
}

func WithAuditPublisher(p AuditPublisher) MeetingServiceOption {
	return func(s *MeetingService) {
		s.auditor = p
	}
}

func NewMeetingService(index WardIndex, store MeetingStore, opts ...MeetingServiceOption) *MeetingService {
	s := &MeetingService{
		index:  index,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordMeeting stores a meeting for a ward and returns it with its new id.
func (s *MeetingService) RecordMeeting(ctx context.Context, code domain.WardCode, in MeetingInput) (*Meeting, error) {
	if err := validateMeeting(in, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}

	if _, err := s.index.Ward(ctx, code); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownWard, "ward "+code.String()+" does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve ward")
	}

	actor := requestcontext.Actor(ctx)
	m := &Meeting{
		ID:               uuid.New(),
		WardCode:         code,
		MeetingType:      strings.TrimSpace(in.MeetingType),
		MeetingDate:      in.MeetingDate.UTC(),
		QuorumRequired:   in.QuorumRequired,
		QuorumAchieved:   in.QuorumAchieved,
		PresidingOfficer: normalizeOfficer(in.PresidingOfficer),
		Secretary:        normalizeOfficer(in.Secretary),
		QuorumVerified:   in.QuorumVerified,
		Verified:         in.Verified,
		RecordedBy:       actor.ID,
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.RecordMeeting(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnknownWard, "ward "+code.String()+" does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record meeting")
	}

	s.logger.InfoContext(ctx, "meeting recorded",
		"ward_code", code,
		"meeting_id", m.ID,
		"quorum_achieved", m.AchievedQuorum(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		if err := s.auditor.Emit(ctx, audit.Event{
			Action:    string(audit.EventMeetingRecorded),
			WardCode:  code.String(),
			Subject:   m.ID.String(),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			ActorRole: actor.Role,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to emit meeting audit event", "error", err)
		}
	}
	return m, nil
}

func validateMeeting(in MeetingInput, now time.Time) error {
	if strings.TrimSpace(in.MeetingType) == "" {
		return dErrors.New(dErrors.CodeValidation, "meeting_type is required")
	}
	if in.MeetingDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "meeting_date is required")
	}
	if in.MeetingDate.After(now.Add(maxMeetingClockSkew)) {
		return dErrors.New(dErrors.CodeValidation, "meeting_date cannot be in the future")
	}
	if in.QuorumRequired <= 0 {
		return dErrors.New(dErrors.CodeValidation, "quorum_required must be positive")
	}
	if in.QuorumAchieved < 0 {
		return dErrors.New(dErrors.CodeValidation, "quorum_achieved cannot be negative")
	}
	for field, o := range map[string]*Officer{"presiding_officer": in.PresidingOfficer, "secretary": in.Secretary} {
		if o != nil && strings.TrimSpace(o.Name) == "" {
			return dErrors.New(dErrors.CodeValidation, field+".name is required when "+field+" is given")
		}
	}
	return nil
}

func normalizeOfficer(o *Officer) *Officer {
	if o == nil {
		return nil
	}
	return &Officer{MemberID: strings.TrimSpace(o.MemberID), Name: strings.TrimSpace(o.Name)}
}
