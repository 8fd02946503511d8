package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"wardaudit/internal/platform/kafka/consumer"
	audit "wardaudit/pkg/platform/audit"
)

// EventStore materializes relayed events for querying.
type EventStore interface {
	AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error
}

// AuditLogHandler writes relayed audit events to the queryable audit log.
// Writes are idempotent on the event id, so redelivery is harmless.
type AuditLogHandler struct {
	store  EventStore
	logger *slog.Logger
}

func NewAuditLogHandler(store EventStore, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{store: store, logger: logger}
}

// Handle decodes and stores one event. Malformed messages are logged and
// skipped; store failures are returned so the message is redelivered.
func (h *AuditLogHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("CRITICAL: failed to unmarshal audit payload",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	eventID := event.ID
	if eventID == uuid.Nil {
		parsed, err := uuid.Parse(msg.Headers["event_id"])
		if err != nil {
			h.logger.Error("CRITICAL: audit event has no id",
				"key", string(msg.Key),
				"action", event.Action,
			)
			return nil
		}
		eventID = parsed
	}
	if event.Action == "" {
		event.Action = msg.Headers["event_type"]
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if err := h.store.AppendWithID(ctx, eventID, event); err != nil {
		h.logger.Error("failed to store audit event",
			"event_id", eventID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store audit event: %w", err)
	}

	h.logger.Debug("stored audit event",
		"event_id", eventID,
		"action", event.Action,
		"ward_code", event.WardCode,
	)
	return nil
}
