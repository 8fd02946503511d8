package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"wardaudit/internal/approval"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
	txcontext "wardaudit/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists approval records in ward_approvals. Writes join the
// transaction carried by ctx.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, r *approval.Record) error {
	criteria, err := json.Marshal(r.Criteria)
	if err != nil {
		return fmt.Errorf("marshal approval criteria: %w", err)
	}
	query := `
		INSERT INTO ward_approvals (
			id, ward_code, actor_id, actor_name, actor_role,
			approved_at, criteria, notes, device, client_ip
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		r.ID,
		r.WardCode,
		r.ActorID,
		r.ActorName,
		r.ActorRole,
		r.ApprovedAt,
		criteria,
		r.Notes,
		r.Device,
		r.ClientIP,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("ward %s already approved: %w", r.WardCode, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByWard(ctx context.Context, code domain.WardCode) (*approval.Record, error) {
	query := `
		SELECT id, ward_code, actor_id, actor_name, actor_role,
			approved_at, criteria, notes, device, client_ip
		FROM ward_approvals
		WHERE ward_code = $1
	`
	var (
		r        approval.Record
		criteria []byte
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, code).Scan(
		&r.ID,
		&r.WardCode,
		&r.ActorID,
		&r.ActorName,
		&r.ActorRole,
		&r.ApprovedAt,
		&criteria,
		&r.Notes,
		&r.Device,
		&r.ClientIP,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find approval: %w", err)
	}
	if err := json.Unmarshal(criteria, &r.Criteria); err != nil {
		return nil, fmt.Errorf("decode approval criteria: %w", err)
	}
	r.ApprovedAt = r.ApprovedAt.UTC()
	return &r, nil
}
