package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers state transitions with governance significance.
	// These go through the transactional outbox and are retained indefinitely.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers denied or suspicious actions.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity (refreshes, fact input).
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Category  EventCategory  `json:"category"`
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	WardCode  string         `json:"ward_code,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	ActorName string         `json:"actor_name,omitempty"`
	ActorRole string         `json:"actor_role,omitempty"`
	Decision  string         `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	ClientIP  string         `json:"client_ip,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type AuditEvent string

const (
	EventWardApproved      AuditEvent = "ward_approved"
	EventApprovalDenied    AuditEvent = "approval_denied"
	EventMeetingRecorded   AuditEvent = "meeting_recorded"
	EventRefreshRequested  AuditEvent = "refresh_requested"
	EventAuthorizationFail AuditEvent = "authorization_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventWardApproved:      CategoryCompliance,
	EventMeetingRecorded:   CategoryCompliance,
	EventApprovalDenied:    CategorySecurity,
	EventAuthorizationFail: CategorySecurity,
	EventRefreshRequested:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events. Outbox-backed stores join the transaction
// carried in ctx so the event commits with the state change it describes.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// OutboxEntry is one unpublished (or published) event awaiting relay.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// AggregateFor names the outbox aggregate for an event: ward events are keyed
// by ward code so the relay preserves per-ward ordering.
func AggregateFor(event Event) (aggregateType, aggregateID string) {
	if event.WardCode != "" {
		return "ward", event.WardCode
	}
	return "audit", event.ID.String()
}
