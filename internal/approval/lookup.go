package approval

import (
	"context"
	"errors"

	"wardaudit/internal/compliance"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
)

// Lookup exposes approval records to the snapshot aggregator.
type Lookup struct {
	store Store
}

func NewLookup(store Store) *Lookup {
	return &Lookup{store: store}
}

// ApprovalFor returns the ward's approval, or nil while the ward is pending.
func (l *Lookup) ApprovalFor(ctx context.Context, code domain.WardCode) (*compliance.Approval, error) {
	r, err := l.store.FindByWard(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.ToCompliance(), nil
}
