// Package publisher emits audit events with fail-closed semantics.
//
// Emit writes synchronously. When the store is outbox-backed and ctx carries a
// transaction, the event commits or rolls back with the caller's own writes.
// A failed write is returned and the calling operation must fail.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	audit "wardaudit/pkg/platform/audit"
	"wardaudit/pkg/requestcontext"
)

// Publisher enriches events with request metadata and persists them.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit fills id, timestamp, category, request id and client ip when unset and
// writes the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	event.Timestamp = event.Timestamp.UTC()
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit persistence failed",
				"action", event.Action,
				"ward_code", event.WardCode,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.ObservePersistDuration(time.Since(start).Seconds())
		p.metrics.IncEventsEmitted(event.Category)
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, event.Action,
			"log_type", "audit",
			"event", event.Action,
			"category", string(event.Category),
			"ward_code", event.WardCode,
			"actor_id", event.ActorID,
			"request_id", event.RequestID,
		)
	}
	return nil
}
