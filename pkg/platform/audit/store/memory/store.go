package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "wardaudit/pkg/platform/audit"
)

// InMemoryStore is an outbox and an audit log in one. Append enqueues an
// outbox entry; the relay drains it; AppendWithID materializes consumed events.
type InMemoryStore struct {
	mu     sync.RWMutex
	outbox []audit.OutboxEntry
	events map[uuid.UUID]audit.Event
	order  []uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[uuid.UUID]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = nil
	s.events = make(map[uuid.UUID]audit.Event)
	s.order = nil
}

// Append enqueues the event on the outbox.
func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	aggType, aggID := audit.AggregateFor(event)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, audit.OutboxEntry{
		ID:            event.ID,
		AggregateType: aggType,
		AggregateID:   aggID,
		EventType:     event.Action,
		Payload:       payload,
		CreatedAt:     event.Timestamp,
	})
	return nil
}

// Pending returns up to limit unprocessed entries in insertion order.
func (s *InMemoryStore) Pending(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.OutboxEntry
	for _, e := range s.outbox {
		if e.ProcessedAt != nil {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkProcessed stamps the given entries as relayed.
func (s *InMemoryStore) MarkProcessed(_ context.Context, ids []uuid.UUID, at time.Time) error {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if _, ok := want[s.outbox[i].ID]; ok && s.outbox[i].ProcessedAt == nil {
			processed := at
			s.outbox[i].ProcessedAt = &processed
		}
	}
	return nil
}

// Outbox returns every entry, processed or not.
func (s *InMemoryStore) Outbox() []audit.OutboxEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.OutboxEntry{}, s.outbox...)
}

// AppendWithID records a consumed event. Duplicate ids are ignored.
func (s *InMemoryStore) AppendWithID(_ context.Context, eventID uuid.UUID, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; ok {
		return nil
	}
	event.ID = eventID
	s.events[eventID] = event
	s.order = append(s.order, eventID)
	return nil
}

// ListByWard returns materialized events for a ward, most recent first.
func (s *InMemoryStore) ListByWard(_ context.Context, wardCode string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, id := range s.order {
		if e := s.events[id]; e.WardCode == wardCode {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}
