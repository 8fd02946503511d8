// Package geography models the read-only province → municipality → ward →
// voting-district containment supplied by the geographic reference collaborator.
package geography

import (
	"wardaudit/pkg/domain"
)

// Province is a top-level region.
type Province struct {
	Code domain.ProvinceCode `json:"code"`
	Name string              `json:"name"`
}

// Municipality groups wards and belongs to a district and province.
type Municipality struct {
	Code         domain.MunicipalityCode `json:"code"`
	Name         string                  `json:"name"`
	DistrictCode domain.DistrictCode     `json:"district_code"`
	ProvinceCode domain.ProvinceCode     `json:"province_code"`
}

// Ward is the unit of compliance evaluation.
type Ward struct {
	Code             domain.WardCode         `json:"code"`
	Name             string                  `json:"name"`
	MunicipalityCode domain.MunicipalityCode `json:"municipality_code"`
	DistrictCode     domain.DistrictCode     `json:"district_code"`
	ProvinceCode     domain.ProvinceCode     `json:"province_code"`
	VotingDistricts  []VotingDistrict        `json:"voting_districts"`
}

// VotingDistrict is a subdivision of a ward.
type VotingDistrict struct {
	Code     domain.VotingDistrictCode `json:"code"`
	Name     string                    `json:"name"`
	WardCode domain.WardCode           `json:"ward_code"`
}

// VotingDistrictCodes returns the codes of the ward's voting districts in order.
func (w *Ward) VotingDistrictCodes() []domain.VotingDistrictCode {
	codes := make([]domain.VotingDistrictCode, 0, len(w.VotingDistricts))
	for _, vd := range w.VotingDistricts {
		codes = append(codes, vd.Code)
	}
	return codes
}

// Clone returns a deep copy so callers cannot mutate store state.
func (w *Ward) Clone() *Ward {
	if w == nil {
		return nil
	}
	c := *w
	c.VotingDistricts = append([]VotingDistrict(nil), w.VotingDistricts...)
	return &c
}
