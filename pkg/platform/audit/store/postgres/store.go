package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "wardaudit/pkg/platform/audit"
	txcontext "wardaudit/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the relay;
// the audit consumer materializes them into audit_events.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an audit event to the outbox, inside the transaction carried
// by ctx when there is one.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	aggregateType, aggregateID := audit.AggregateFor(event)

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		event.ID,
		aggregateType,
		aggregateID,
		event.Action,
		payload,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Pending returns up to limit unprocessed outbox entries, oldest first.
func (s *Store) Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []audit.OutboxEntry
	for rows.Next() {
		var e audit.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return entries, nil
}

// MarkProcessed stamps relayed entries.
func (s *Store) MarkProcessed(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE outbox SET processed_at = $2
		WHERE id = ANY($1::uuid[]) AND processed_at IS NULL
	`, pq.Array(strs), at)
	if err != nil {
		return fmt.Errorf("mark outbox processed: %w", err)
	}
	return nil
}

// AppendWithID inserts a consumed event into audit_events. Idempotent via
// ON CONFLICT DO NOTHING, so redelivered Kafka messages are harmless.
func (s *Store) AppendWithID(ctx context.Context, eventID uuid.UUID, event audit.Event) error {
	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	query := `
		INSERT INTO audit_events (
			id, category, timestamp, action, ward_code, subject,
			actor_id, actor_name, actor_role, decision, reason,
			request_id, client_ip, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		eventID,
		string(event.Category),
		event.Timestamp,
		event.Action,
		event.WardCode,
		event.Subject,
		event.ActorID,
		event.ActorName,
		event.ActorRole,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ClientIP,
		details,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByWard returns materialized events for a ward, most recent first.
func (s *Store) ListByWard(ctx context.Context, wardCode string) ([]audit.Event, error) {
	query := `
		SELECT id, category, timestamp, action, ward_code, subject,
			   actor_id, actor_name, actor_role, decision, reason,
			   request_id, client_ip, details
		FROM audit_events
		WHERE ward_code = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, wardCode)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			details  []byte
		)
		err := rows.Scan(
			&e.ID, &category, &e.Timestamp, &e.Action, &e.WardCode, &e.Subject,
			&e.ActorID, &e.ActorName, &e.ActorRole, &e.Decision, &e.Reason,
			&e.RequestID, &e.ClientIP, &details,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		if len(details) > 0 && string(details) != "null" {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("decode audit details: %w", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
