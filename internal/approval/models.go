// Package approval moves a ward from pending to approved. Approval is gated on
// the ward's cached snapshot and writes an immutable record together with its
// audit event.
package approval

import (
	"time"

	"github.com/google/uuid"

	"wardaudit/internal/compliance"
	"wardaudit/pkg/domain"
)

// Record is the immutable evidence that a ward was approved. Criteria are the
// five results the approver saw at approval time.
type Record struct {
	ID         uuid.UUID           `json:"id"`
	WardCode   domain.WardCode     `json:"ward_code"`
	ActorID    string              `json:"actor_id"`
	ActorName  string              `json:"actor_name"`
	ActorRole  string              `json:"actor_role"`
	ApprovedAt time.Time           `json:"approved_at"`
	Criteria   compliance.Criteria `json:"criteria"`
	Notes      string              `json:"notes,omitempty"`
	Device     string              `json:"device,omitempty"`
	ClientIP   string              `json:"client_ip,omitempty"`
}

// ToCompliance projects the record onto what the aggregator reads.
func (r *Record) ToCompliance() *compliance.Approval {
	if r == nil {
		return nil
	}
	return &compliance.Approval{
		ID:         r.ID,
		ApprovedAt: r.ApprovedAt,
		ActorName:  r.ActorName,
		Criteria:   r.Criteria,
	}
}

// Input carries the optional fields an approver may submit.
type Input struct {
	Notes string
}

// Result is the outcome of a successful approval.
type Result struct {
	Record   *Record
	Snapshot *compliance.Snapshot
}
