package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"wardaudit/internal/compliance"
	"wardaudit/pkg/domain"
)

// InMemory keeps the latest snapshot per ward as JSON, matching what the
// Postgres store round-trips, so callers never share mutable state with it.
// Like Postgres it ignores a snapshot computed before the stored one.
type InMemory struct {
	mu         sync.RWMutex
	snaps      map[domain.WardCode][]byte
	computedAt map[domain.WardCode]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{
		snaps:      make(map[domain.WardCode][]byte),
		computedAt: make(map[domain.WardCode]time.Time),
	}
}

func (s *InMemory) Save(_ context.Context, snap *compliance.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if at, ok := s.computedAt[snap.WardCode]; ok && snap.ComputedAt.Before(at) {
		return nil
	}
	s.snaps[snap.WardCode] = payload
	s.computedAt[snap.WardCode] = snap.ComputedAt
	return nil
}

func (s *InMemory) LoadAll(_ context.Context) ([]*compliance.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*compliance.Snapshot, 0, len(s.snaps))
	for code, payload := range s.snaps {
		var snap compliance.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", code, err)
		}
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WardCode < out[j].WardCode })
	return out, nil
}
