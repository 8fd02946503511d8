package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wardaudit/internal/facts"
	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
)

// PostgresStore reads upstream fact tables and writes recorded meetings.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) MembershipFacts(ctx context.Context, ward *geography.Ward, asOf time.Time) (facts.MembershipFacts, error) {
	// Counting per requested voting district keeps empty districts in the result.
	query := `
		SELECT vd.code, COUNT(m.id)
		FROM unnest($2::text[]) AS vd(code)
		LEFT JOIN members m
		       ON m.voting_district_code = vd.code
		      AND m.ward_code = $1
		      AND m.status = 'active'
		      AND m.joined_at <= $3
		GROUP BY vd.code
	`
	codes := make([]string, 0, len(ward.VotingDistricts))
	for _, vd := range ward.VotingDistricts {
		codes = append(codes, vd.Code.String())
	}

	rows, err := s.db.QueryContext(ctx, query, ward.Code, pq.Array(codes), asOf)
	if err != nil {
		return facts.MembershipFacts{}, fmt.Errorf("query voting district membership: %w", err)
	}
	defer rows.Close()

	perVD := make(map[domain.VotingDistrictCode]int, len(codes))
	for rows.Next() {
		var (
			code  string
			count int
		)
		if err := rows.Scan(&code, &count); err != nil {
			return facts.MembershipFacts{}, fmt.Errorf("scan voting district membership: %w", err)
		}
		perVD[domain.VotingDistrictCode(code)] = count
	}
	if err := rows.Err(); err != nil {
		return facts.MembershipFacts{}, fmt.Errorf("iterate voting district membership: %w", err)
	}

	total, err := s.activeCount(ctx, ward.Code, asOf)
	if err != nil {
		return facts.MembershipFacts{}, err
	}

	out := facts.MembershipFacts{
		TotalActive:     total,
		VotingDistricts: make([]facts.VotingDistrictCount, 0, len(ward.VotingDistricts)),
	}
	for _, vd := range ward.VotingDistricts {
		out.VotingDistricts = append(out.VotingDistricts, facts.VotingDistrictCount{
			Code:    vd.Code,
			Name:    vd.Name,
			Members: perVD[vd.Code],
		})
	}
	return out, nil
}

func (s *PostgresStore) activeCount(ctx context.Context, ward domain.WardCode, asOf time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM members
		WHERE ward_code = $1 AND status = 'active' AND joined_at <= $2
	`
	var n int
	if err := s.db.QueryRowContext(ctx, query, ward, asOf).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active members: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) GrowthFacts(ctx context.Context, ward *geography.Ward, asOf time.Time, period time.Duration) (facts.GrowthFacts, error) {
	previousAsOf := asOf.Add(-period)
	query := `
		SELECT
			COUNT(*) FILTER (WHERE joined_at <= $2),
			COUNT(*) FILTER (WHERE joined_at <= $3)
		FROM members
		WHERE ward_code = $1 AND status = 'active'
	`
	out := facts.GrowthFacts{
		CurrentAsOf:    asOf,
		PreviousAsOf:   previousAsOf,
		PeriodDuration: period,
	}
	if err := s.db.QueryRowContext(ctx, query, ward.Code, asOf, previousAsOf).Scan(&out.Current, &out.Previous); err != nil {
		return facts.GrowthFacts{}, fmt.Errorf("query growth counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) MeetingFacts(ctx context.Context, ward *geography.Ward, from, to time.Time) (facts.MeetingFacts, error) {
	query := `
		SELECT id, ward_code, meeting_type, meeting_date, quorum_required, quorum_achieved,
		       presiding_officer_id, presiding_officer_name, secretary_id, secretary_name,
		       quorum_verified, verified, COALESCE(recorded_by, ''), created_at
		FROM ward_meetings
		WHERE ward_code = $1
		  AND meeting_date <= $2
		  AND ($3::timestamptz IS NULL OR meeting_date >= $3)
		ORDER BY meeting_date DESC, id
	`
	var fromArg any
	if !from.IsZero() {
		fromArg = from
	}
	rows, err := s.db.QueryContext(ctx, query, ward.Code, to, fromArg)
	if err != nil {
		return facts.MeetingFacts{}, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	out := facts.MeetingFacts{WindowStart: from, WindowEnd: to}
	for rows.Next() {
		var (
			m                      facts.Meeting
			poID, poName, sID, sNm sql.NullString
		)
		err := rows.Scan(
			&m.ID, &m.WardCode, &m.MeetingType, &m.MeetingDate, &m.QuorumRequired, &m.QuorumAchieved,
			&poID, &poName, &sID, &sNm,
			&m.QuorumVerified, &m.Verified, &m.RecordedBy, &m.CreatedAt,
		)
		if err != nil {
			return facts.MeetingFacts{}, fmt.Errorf("scan meeting: %w", err)
		}
		m.PresidingOfficer = officerFrom(poID, poName)
		m.Secretary = officerFrom(sID, sNm)
		out.Meetings = append(out.Meetings, m)
	}
	if err := rows.Err(); err != nil {
		return facts.MeetingFacts{}, fmt.Errorf("iterate meetings: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DelegateFacts(ctx context.Context, ward *geography.Ward, asOf time.Time) (facts.DelegateFacts, error) {
	query := `
		SELECT tier, COUNT(*)
		FROM ward_delegates
		WHERE ward_code = $1
		  AND assigned_at <= $2
		  AND (withdrawn_at IS NULL OR withdrawn_at > $2)
		GROUP BY tier
	`
	rows, err := s.db.QueryContext(ctx, query, ward.Code, asOf)
	if err != nil {
		return facts.DelegateFacts{}, fmt.Errorf("query delegates: %w", err)
	}
	defer rows.Close()

	out := facts.DelegateFacts{Counts: make(map[facts.Tier]int, len(facts.Tiers))}
	for _, t := range facts.Tiers {
		out.Counts[t] = 0
	}
	for rows.Next() {
		var (
			tier  string
			count int
		)
		if err := rows.Scan(&tier, &count); err != nil {
			return facts.DelegateFacts{}, fmt.Errorf("scan delegate count: %w", err)
		}
		out.Counts[facts.Tier(tier)] = count
	}
	if err := rows.Err(); err != nil {
		return facts.DelegateFacts{}, fmt.Errorf("iterate delegate counts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) RecordMeeting(ctx context.Context, m *facts.Meeting) error {
	query := `
		INSERT INTO ward_meetings (
			id, ward_code, meeting_type, meeting_date, quorum_required, quorum_achieved,
			presiding_officer_id, presiding_officer_name, secretary_id, secretary_name,
			quorum_verified, verified, recorded_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	poID, poName := officerColumns(m.PresidingOfficer)
	sID, sName := officerColumns(m.Secretary)
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.WardCode, m.MeetingType, m.MeetingDate, m.QuorumRequired, m.QuorumAchieved,
		poID, poName, sID, sName,
		m.QuorumVerified, m.Verified, nullString(m.RecordedBy), m.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("ward %s: %w", m.WardCode, sentinel.ErrNotFound)
		}
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func officerFrom(id, name sql.NullString) *facts.Officer {
	if !name.Valid || name.String == "" {
		return nil
	}
	return &facts.Officer{MemberID: id.String, Name: name.String}
}

func officerColumns(o *facts.Officer) (sql.NullString, sql.NullString) {
	if o == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return nullString(o.MemberID), nullString(o.Name)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
