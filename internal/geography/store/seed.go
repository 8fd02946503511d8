package store

import (
	"fmt"

	"wardaudit/internal/geography"
	"wardaudit/pkg/domain"
)

// Demo reference data for in-memory development mode.
const (
	DemoProvinceCode     domain.ProvinceCode     = "GT"
	DemoMunicipalityCode domain.MunicipalityCode = "JHB"
	DemoWardCode         domain.WardCode         = "79700001"
	DemoSecondWardCode   domain.WardCode         = "79700002"
)

// SeedDemoGeography registers one province, one metro and two wards with six
// voting districts each.
func SeedDemoGeography(s *InMemory) error {
	s.AddProvince(geography.Province{Code: DemoProvinceCode, Name: "Gauteng"})
	if err := s.AddMunicipality(geography.Municipality{
		Code:         DemoMunicipalityCode,
		Name:         "City of Johannesburg",
		DistrictCode: "JHB",
		ProvinceCode: DemoProvinceCode,
	}); err != nil {
		return err
	}

	for i, code := range []domain.WardCode{DemoWardCode, DemoSecondWardCode} {
		if err := s.AddWard(geography.Ward{
			Code:             code,
			Name:             fmt.Sprintf("Johannesburg Ward %d", i+1),
			MunicipalityCode: DemoMunicipalityCode,
			DistrictCode:     "JHB",
			ProvinceCode:     DemoProvinceCode,
			VotingDistricts:  DemoVotingDistricts(code),
		}); err != nil {
			return err
		}
	}
	return nil
}

// DemoVotingDistricts returns the six voting districts of a demo ward.
func DemoVotingDistricts(ward domain.WardCode) []geography.VotingDistrict {
	vds := make([]geography.VotingDistrict, 0, 6)
	for i := 1; i <= 6; i++ {
		vds = append(vds, geography.VotingDistrict{
			Code:     domain.VotingDistrictCode(fmt.Sprintf("%s%02d", ward, i)),
			Name:     fmt.Sprintf("Voting District %d", i),
			WardCode: ward,
		})
	}
	return vds
}
