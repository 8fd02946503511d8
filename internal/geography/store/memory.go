package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory geographic index for development and tests.
type InMemory struct {
	mu             sync.RWMutex
	provinces      map[domain.ProvinceCode]*geography.Province
	municipalities map[domain.MunicipalityCode]*geography.Municipality
	wards          map[domain.WardCode]*geography.Ward
}

func NewInMemory() *InMemory {
	return &InMemory{
		provinces:      make(map[domain.ProvinceCode]*geography.Province),
		municipalities: make(map[domain.MunicipalityCode]*geography.Municipality),
		wards:          make(map[domain.WardCode]*geography.Ward),
	}
}

// AddProvince registers a province.
func (s *InMemory) AddProvince(p geography.Province) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provinces[p.Code] = &p
}

// AddMunicipality registers a municipality. Its province must exist.
func (s *InMemory) AddMunicipality(m geography.Municipality) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.provinces[m.ProvinceCode]; !ok {
		return fmt.Errorf("province %s: %w", m.ProvinceCode, sentinel.ErrNotFound)
	}
	s.municipalities[m.Code] = &m
	return nil
}

// AddWard registers a ward with its voting districts. Its municipality must exist.
func (s *InMemory) AddWard(w geography.Ward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.municipalities[w.MunicipalityCode]; !ok {
		return fmt.Errorf("municipality %s: %w", w.MunicipalityCode, sentinel.ErrNotFound)
	}
	for i := range w.VotingDistricts {
		w.VotingDistricts[i].WardCode = w.Code
	}
	s.wards[w.Code] = w.Clone()
	return nil
}

func (s *InMemory) Ward(_ context.Context, code domain.WardCode) (*geography.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wards[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return w.Clone(), nil
}

func (s *InMemory) WardCodes(_ context.Context) ([]domain.WardCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]domain.WardCode, 0, len(s.wards))
	for code := range s.wards {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes, nil
}

func (s *InMemory) WardsInMunicipality(_ context.Context, code domain.MunicipalityCode) ([]*geography.Ward, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.municipalities[code]; !ok {
		return nil, sentinel.ErrNotFound
	}
	var wards []*geography.Ward
	for _, w := range s.wards {
		if w.MunicipalityCode == code {
			wards = append(wards, w.Clone())
		}
	}
	slices.SortFunc(wards, func(a, b *geography.Ward) int {
		return strings.Compare(string(a.Code), string(b.Code))
	})
	return wards, nil
}

func (s *InMemory) Municipality(_ context.Context, code domain.MunicipalityCode) (*geography.Municipality, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.municipalities[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (s *InMemory) Province(_ context.Context, code domain.ProvinceCode) (*geography.Province, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.provinces[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *p
	return &c, nil
}
