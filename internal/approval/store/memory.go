package store

import (
	"context"
	"fmt"
	"sync"

	"wardaudit/internal/approval"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
)

// InMemory keeps one approval record per ward.
type InMemory struct {
	mu      sync.RWMutex
	records map[domain.WardCode]approval.Record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[domain.WardCode]approval.Record)}
}

// Save stores the record. A second record for the same ward is a conflict.
func (s *InMemory) Save(_ context.Context, r *approval.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[r.WardCode]; ok {
		return fmt.Errorf("ward %s already approved: %w", r.WardCode, sentinel.ErrConflict)
	}
	s.records[r.WardCode] = *r
	return nil
}

func (s *InMemory) FindByWard(_ context.Context, code domain.WardCode) (*approval.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}
