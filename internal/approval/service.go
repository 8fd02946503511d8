package approval

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"wardaudit/internal/approval/metrics"
	"wardaudit/internal/compliance"
	"wardaudit/internal/snapshot"
	"wardaudit/internal/wardlock"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	audit "wardaudit/pkg/platform/audit"
	"wardaudit/pkg/platform/sentinel"
	platformstrings "wardaudit/pkg/platform/strings"
	"wardaudit/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// Store persists approval records. Save returns sentinel.ErrConflict when the
// ward already has one.
type Store interface {
	Save(ctx context.Context, r *Record) error
	FindByWard(ctx context.Context, code domain.WardCode) (*Record, error)
}

// TxRunner runs fn as one unit of work. Stores joined to the unit of work
// read their transaction from the ctx passed to fn.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Snapshots is the slice of the snapshot service approval depends on.
type Snapshots interface {
	Locker() wardlock.Locker
	Cached(code domain.WardCode) (*compliance.Snapshot, bool)
	RefreshWardLocked(ctx context.Context, code domain.WardCode) (*snapshot.Entry, error)
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

const (
	outcomeApproved         = "approved"
	outcomeCriteriaNotMet   = "criteria_not_met"
	outcomeAlreadyCompliant = "already_compliant"
	outcomeForbidden        = "forbidden"
	outcomeError            = "error"
)

// Service runs the pending -> approved transition.
type Service struct {
	store         Store
	tx            TxRunner
	snapshots     Snapshots
	auditor       AuditPublisher
	approverRoles []string

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithApproverRoles replaces the roles allowed to approve wards.
func WithApproverRoles(roles []string) Option {
	return func(s *Service) {
		s.approverRoles = platformstrings.NormalizeSet(roles)
	}
}

func New(store Store, tx TxRunner, snapshots Snapshots, auditor AuditPublisher, opts ...Option) *Service {
	s := &Service{
		store:         store,
		tx:            tx,
		snapshots:     snapshots,
		auditor:       auditor,
		approverRoles: []string{"national_secretary", "provincial_secretary"},
		logger:        slog.Default(),
		tracer:        otel.Tracer("wardaudit/approval"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Approve moves a pending ward whose cached snapshot passes all five criteria
// to approved. The record and its audit event are written in one unit of
// work, then the ward is refreshed under the same lock so reads see
// is_compliant immediately.
func (s *Service) Approve(ctx context.Context, code domain.WardCode, in Input) (*Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "approval.Approve", trace.WithAttributes(
		attribute.String("ward_code", code.String()),
	))
	defer span.End()

	res, err := s.approve(ctx, code, in)
	outcome := outcomeOf(err)
	if s.metrics != nil {
		s.metrics.IncDecision(outcome)
		s.metrics.ObserveDuration(start)
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	return res, nil
}

func (s *Service) approve(ctx context.Context, code domain.WardCode, in Input) (*Result, error) {
	actor := requestcontext.Actor(ctx)
	if actor.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !platformstrings.ContainsNormalized(s.approverRoles, actor.Role) {
		s.deny(ctx, code, actor, outcomeForbidden, nil)
		return nil, dErrors.New(dErrors.CodeForbidden, "role "+actor.Role+" cannot approve wards")
	}

	unlock, err := s.snapshots.Locker().Lock(ctx, code)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.current(ctx, code)
	if err != nil {
		return nil, err
	}
	if snap.ApprovalStatus == compliance.StatusApproved {
		s.deny(ctx, code, actor, outcomeAlreadyCompliant, nil)
		return nil, dErrors.New(dErrors.CodeAlreadyCompliant, "ward "+code.String()+" is already approved")
	}
	if !snap.AllCriteriaPassed {
		failed := snap.FailedCriteria()
		s.deny(ctx, code, actor, outcomeCriteriaNotMet, failed)
		return nil, dErrors.New(dErrors.CodeCriteriaNotMet, "ward "+code.String()+" does not meet all compliance criteria").
			WithField("failed_criteria", failed)
	}

	record := &Record{
		ID:         uuid.New(),
		WardCode:   code,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		ActorRole:  actor.Role,
		ApprovedAt: requestcontext.Now(ctx).UTC(),
		Criteria:   snap.Criteria,
		Notes:      strings.TrimSpace(in.Notes),
		Device:     DeviceSummary(requestcontext.UserAgent(ctx)),
		ClientIP:   requestcontext.ClientIP(ctx),
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, record); err != nil {
			return err
		}
		return s.auditor.Emit(ctx, audit.Event{
			Action:    string(audit.EventWardApproved),
			WardCode:  code.String(),
			Subject:   record.ID.String(),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			ActorRole: actor.Role,
			Decision:  outcomeApproved,
			Details: map[string]any{
				"computed_at": snap.ComputedAt,
				"device":      record.Device,
			},
		})
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeAlreadyCompliant, "ward "+code.String()+" is already approved")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record approval")
	}

	s.logger.InfoContext(ctx, "ward approved",
		"ward_code", code,
		"approval_id", record.ID,
		"actor_id", actor.ID,
		"request_id", requestcontext.RequestID(ctx),
	)

	res := &Result{Record: record}
	entry, err := s.snapshots.RefreshWardLocked(ctx, code)
	if err != nil {
		// The approval is committed; the next refresh picks it up.
		s.logger.WarnContext(ctx, "refresh after approval failed",
			"ward_code", code,
			"error", err,
		)
		return res, nil
	}
	res.Snapshot = entry.Snapshot
	return res, nil
}

// current returns the cached snapshot, evaluating the ward once when it has
// never been cached. The caller holds the ward lock.
func (s *Service) current(ctx context.Context, code domain.WardCode) (*compliance.Snapshot, error) {
	if snap, ok := s.snapshots.Cached(code); ok {
		return snap, nil
	}
	entry, err := s.snapshots.RefreshWardLocked(ctx, code)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnknownWard) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeSnapshotUnavailable,
			"no snapshot available for ward "+code.String())
	}
	return entry.Snapshot, nil
}

// deny records a rejected approval. Denials are already failing the request,
// so an audit write error is only logged.
func (s *Service) deny(ctx context.Context, code domain.WardCode, actor requestcontext.ActorInfo, reason string, failed []string) {
	s.logger.InfoContext(ctx, "approval denied",
		"ward_code", code,
		"actor_id", actor.ID,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	event := audit.Event{
		Action:    string(audit.EventApprovalDenied),
		WardCode:  code.String(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Decision:  "denied",
		Reason:    reason,
	}
	if len(failed) > 0 {
		event.Details = map[string]any{"failed_criteria": failed}
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit approval denial", "error", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeApproved
	case dErrors.HasCode(err, dErrors.CodeCriteriaNotMet):
		return outcomeCriteriaNotMet
	case dErrors.HasCode(err, dErrors.CodeAlreadyCompliant):
		return outcomeAlreadyCompliant
	case dErrors.HasCode(err, dErrors.CodeForbidden):
		return outcomeForbidden
	default:
		return outcomeError
	}
}
