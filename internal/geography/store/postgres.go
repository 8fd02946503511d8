package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
	"wardaudit/pkg/platform/sentinel"
)

// PostgresStore reads the geographic reference tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ward(ctx context.Context, code domain.WardCode) (*geography.Ward, error) {
	query := `
		SELECT code, name, municipality_code, district_code, province_code
		FROM wards
		WHERE code = $1
	`
	var w geography.Ward
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&w.Code, &w.Name, &w.MunicipalityCode, &w.DistrictCode, &w.ProvinceCode,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find ward: %w", err)
	}

	vds, err := s.votingDistricts(ctx, code)
	if err != nil {
		return nil, err
	}
	w.VotingDistricts = vds
	return &w, nil
}

func (s *PostgresStore) votingDistricts(ctx context.Context, ward domain.WardCode) ([]geography.VotingDistrict, error) {
	query := `
		SELECT code, name, ward_code
		FROM voting_districts
		WHERE ward_code = $1
		ORDER BY code
	`
	rows, err := s.db.QueryContext(ctx, query, ward)
	if err != nil {
		return nil, fmt.Errorf("query voting districts: %w", err)
	}
	defer rows.Close()

	var vds []geography.VotingDistrict
	for rows.Next() {
		var vd geography.VotingDistrict
		if err := rows.Scan(&vd.Code, &vd.Name, &vd.WardCode); err != nil {
			return nil, fmt.Errorf("scan voting district: %w", err)
		}
		vds = append(vds, vd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voting districts: %w", err)
	}
	return vds, nil
}

func (s *PostgresStore) WardCodes(ctx context.Context) ([]domain.WardCode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM wards ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query ward codes: %w", err)
	}
	defer rows.Close()

	var codes []domain.WardCode
	for rows.Next() {
		var code domain.WardCode
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan ward code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ward codes: %w", err)
	}
	return codes, nil
}

func (s *PostgresStore) WardsInMunicipality(ctx context.Context, code domain.MunicipalityCode) ([]*geography.Ward, error) {
	if _, err := s.Municipality(ctx, code); err != nil {
		return nil, err
	}

	query := `
		SELECT w.code, w.name, w.municipality_code, w.district_code, w.province_code,
		       vd.code, vd.name
		FROM wards w
		LEFT JOIN voting_districts vd ON vd.ward_code = w.code
		WHERE w.municipality_code = $1
		ORDER BY w.code, vd.code
	`
	rows, err := s.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("query municipality wards: %w", err)
	}
	defer rows.Close()

	var wards []*geography.Ward
	var current *geography.Ward
	for rows.Next() {
		var (
			w              geography.Ward
			vdCode, vdName sql.NullString
		)
		if err := rows.Scan(&w.Code, &w.Name, &w.MunicipalityCode, &w.DistrictCode, &w.ProvinceCode, &vdCode, &vdName); err != nil {
			return nil, fmt.Errorf("scan municipality ward: %w", err)
		}
		if current == nil || current.Code != w.Code {
			current = &w
			wards = append(wards, current)
		}
		if vdCode.Valid {
			current.VotingDistricts = append(current.VotingDistricts, geography.VotingDistrict{
				Code:     domain.VotingDistrictCode(vdCode.String),
				Name:     vdName.String,
				WardCode: current.Code,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate municipality wards: %w", err)
	}
	return wards, nil
}

func (s *PostgresStore) Municipality(ctx context.Context, code domain.MunicipalityCode) (*geography.Municipality, error) {
	query := `
		SELECT code, name, district_code, province_code
		FROM municipalities
		WHERE code = $1
	`
	var m geography.Municipality
	err := s.db.QueryRowContext(ctx, query, code).Scan(&m.Code, &m.Name, &m.DistrictCode, &m.ProvinceCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find municipality: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) Province(ctx context.Context, code domain.ProvinceCode) (*geography.Province, error) {
	var p geography.Province
	err := s.db.QueryRowContext(ctx, `SELECT code, name FROM provinces WHERE code = $1`, code).Scan(&p.Code, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find province: %w", err)
	}
	return &p, nil
}
