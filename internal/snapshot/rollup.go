package snapshot

import (
	"context"
	"errors"

	"wardaudit/internal/compliance"
	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/sentinel"
)

// Geography resolves rollup scopes.
type Geography interface {
	Municipality(ctx context.Context, code domain.MunicipalityCode) (*geography.Municipality, error)
	Province(ctx context.Context, code domain.ProvinceCode) (*geography.Province, error)
	WardsInMunicipality(ctx context.Context, code domain.MunicipalityCode) ([]*geography.Ward, error)
}

// SnapshotSource is the read side of the cache.
type SnapshotSource interface {
	Cached(code domain.WardCode) (*compliance.Snapshot, bool)
	Snapshots() []*compliance.Snapshot
}

// MunicipalityWard pairs a ward with its cached snapshot, which is nil until
// the ward has been evaluated.
type MunicipalityWard struct {
	Ward     *geography.Ward
	Snapshot *compliance.Snapshot
}

// Rollups aggregates cached snapshots. It never evaluates criteria.
type Rollups struct {
	geo   Geography
	cache SnapshotSource
}

func NewRollups(geo Geography, cache SnapshotSource) *Rollups {
	return &Rollups{geo: geo, cache: cache}
}

// MunicipalityWards lists the municipality's wards with their snapshots.
func (r *Rollups) MunicipalityWards(ctx context.Context, code domain.MunicipalityCode) ([]MunicipalityWard, error) {
	wards, err := r.geo.WardsInMunicipality(ctx, code)
	if err != nil {
		return nil, lookupError(err, "municipality "+code.String()+" not found")
	}
	out := make([]MunicipalityWard, 0, len(wards))
	for _, w := range wards {
		snap, _ := r.cache.Cached(w.Code)
		out = append(out, MunicipalityWard{Ward: w, Snapshot: snap})
	}
	return out, nil
}

func (r *Rollups) Municipality(ctx context.Context, code domain.MunicipalityCode) (compliance.Rollup, error) {
	m, err := r.geo.Municipality(ctx, code)
	if err != nil {
		return compliance.Rollup{}, lookupError(err, "municipality "+code.String()+" not found")
	}
	snaps := r.filter(func(s *compliance.Snapshot) bool { return s.MunicipalityCode == code })
	return compliance.BuildRollup(compliance.LevelMunicipality, string(code), m.Name, snaps), nil
}

func (r *Rollups) Province(ctx context.Context, code domain.ProvinceCode) (compliance.Rollup, error) {
	p, err := r.geo.Province(ctx, code)
	if err != nil {
		return compliance.Rollup{}, lookupError(err, "province "+code.String()+" not found")
	}
	snaps := r.filter(func(s *compliance.Snapshot) bool { return s.ProvinceCode == code })
	return compliance.BuildRollup(compliance.LevelProvince, string(code), p.Name, snaps), nil
}

func (r *Rollups) National(_ context.Context) compliance.Rollup {
	return compliance.BuildRollup(compliance.LevelNational, "", "", r.cache.Snapshots())
}

func (r *Rollups) filter(keep func(*compliance.Snapshot) bool) []*compliance.Snapshot {
	var out []*compliance.Snapshot
	for _, s := range r.cache.Snapshots() {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func lookupError(err error, notFound string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "geographic index unavailable")
}
