//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WardFixture describes one ward and its upstream facts, written straight to
// the reference and fact tables.
type WardFixture struct {
	ProvinceCode     string
	MunicipalityCode string
	WardCode         string
	// VotingDistrictMembers holds active members per voting district.
	VotingDistrictMembers []int
	// RecentJoiners of the active members joined 30 days before Now.
	RecentJoiners  int
	SRPA, PPA, NPA int
	// QuorateMeeting adds a verified meeting two months before Now.
	QuorateMeeting bool
	Now            time.Time
}

// FixtureTables lists the tables SeedWard writes, children first, for truncation.
var FixtureTables = []string{
	"ward_delegates", "ward_meetings", "members",
	"voting_districts", "wards", "municipalities", "provinces",
}

// SeedWard inserts the fixture inside one transaction. Province and
// municipality rows are upserted so several wards can share them.
func (p *PostgresContainer) SeedWard(ctx context.Context, f WardFixture) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	exec := func(query string, args ...any) {
		if err != nil {
			return
		}
		_, err = tx.ExecContext(ctx, query, args...)
	}

	exec(`INSERT INTO provinces (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
		f.ProvinceCode, "Province "+f.ProvinceCode)
	exec(`INSERT INTO municipalities (code, name, district_code, province_code)
		VALUES ($1, $2, $1, $3) ON CONFLICT (code) DO NOTHING`,
		f.MunicipalityCode, "Municipality "+f.MunicipalityCode, f.ProvinceCode)
	exec(`INSERT INTO wards (code, name, municipality_code, district_code, province_code)
		VALUES ($1, $2, $3, $3, $4)`,
		f.WardCode, "Ward "+f.WardCode, f.MunicipalityCode, f.ProvinceCode)

	longAgo := f.Now.AddDate(-1, -1, 0)
	recently := f.Now.AddDate(0, 0, -30)
	total := 0
	for _, n := range f.VotingDistrictMembers {
		total += n
	}
	seeded := 0
	for i, n := range f.VotingDistrictMembers {
		vd := fmt.Sprintf("%s%02d", f.WardCode, i+1)
		exec(`INSERT INTO voting_districts (code, name, ward_code) VALUES ($1, $2, $3)`,
			vd, fmt.Sprintf("Voting District %d", i+1), f.WardCode)
		for range n {
			joined := longAgo
			if seeded >= total-f.RecentJoiners {
				joined = recently
			}
			exec(`INSERT INTO members (id, ward_code, voting_district_code, status, joined_at)
				VALUES ($1, $2, $3, 'active', $4)`,
				uuid.New(), f.WardCode, vd, joined)
			seeded++
		}
	}

	if f.QuorateMeeting {
		held := f.Now.AddDate(0, -2, 0)
		exec(`INSERT INTO ward_meetings (
				id, ward_code, meeting_type, meeting_date, quorum_required, quorum_achieved,
				presiding_officer_id, presiding_officer_name, secretary_id, secretary_name,
				quorum_verified, verified, created_at
			) VALUES ($1, $2, 'branch_general_meeting', $3, 50, 55,
				'member-0001', 'J. Dlamini', 'member-0002', 'P. Mokoena', TRUE, TRUE, $3)`,
			uuid.New(), f.WardCode, held)
	}

	for tier, n := range map[string]int{"SRPA": f.SRPA, "PPA": f.PPA, "NPA": f.NPA} {
		for range n {
			exec(`INSERT INTO ward_delegates (id, ward_code, tier, member_id, assigned_at)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), f.WardCode, tier, uuid.New(), longAgo)
		}
	}
	if err != nil {
		return fmt.Errorf("seed ward %s: %w", f.WardCode, err)
	}
	return tx.Commit()
}

// CompliantWard returns a fixture that passes every criterion at now.
func CompliantWard(ward string, now time.Time) WardFixture {
	return WardFixture{
		ProvinceCode:          "GT",
		MunicipalityCode:      "JHB",
		WardCode:              ward,
		VotingDistrictMembers: []int{35, 30, 25, 20, 6, 4},
		RecentJoiners:         20,
		SRPA:                  2,
		PPA:                   1,
		NPA:                   1,
		QuorateMeeting:        true,
		Now:                   now,
	}
}

// WithdrawDelegates marks every active delegate of the ward withdrawn at at.
func WithdrawDelegates(ctx context.Context, db *sql.DB, ward string, at time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE ward_delegates SET withdrawn_at = $2 WHERE ward_code = $1 AND withdrawn_at IS NULL`,
		ward, at)
	return err
}
