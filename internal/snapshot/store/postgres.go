package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"wardaudit/internal/compliance"
)

// PostgresStore persists snapshots as JSONB alongside the columns rollup
// queries filter on.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save upserts the ward's snapshot. An older computed_at never replaces a newer one.
func (s *PostgresStore) Save(ctx context.Context, snap *compliance.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	query := `
		INSERT INTO ward_compliance_snapshots (
			ward_code, municipality_code, province_code,
			all_criteria_passed, is_compliant, computed_at, payload
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ward_code) DO UPDATE SET
			municipality_code   = EXCLUDED.municipality_code,
			province_code       = EXCLUDED.province_code,
			all_criteria_passed = EXCLUDED.all_criteria_passed,
			is_compliant        = EXCLUDED.is_compliant,
			computed_at         = EXCLUDED.computed_at,
			payload             = EXCLUDED.payload
		WHERE ward_compliance_snapshots.computed_at <= EXCLUDED.computed_at
	`
	_, err = s.db.ExecContext(ctx, query,
		snap.WardCode,
		snap.MunicipalityCode,
		snap.ProvinceCode,
		snap.AllCriteriaPassed,
		snap.IsCompliant,
		snap.ComputedAt,
		payload,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]*compliance.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM ward_compliance_snapshots ORDER BY ward_code
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []*compliance.Snapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snap compliance.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		out = append(out, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}
