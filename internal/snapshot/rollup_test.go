package snapshot_test

import (
	"wardaudit/internal/compliance"
	geostore "wardaudit/internal/geography/store"
	"wardaudit/internal/snapshot"
	dErrors "wardaudit/pkg/domain-errors"
)

func (s *DemoWardSuite) TestRollups() {
	rollups := snapshot.NewRollups(s.geo, s.svc)

	s.Run("empty cache counts nothing", func() {
		r := rollups.National(s.ctx)
		s.Zero(r.TotalWards)
	})

	_, err := s.svc.RefreshAll(s.ctx)
	s.Require().NoError(err)

	s.Run("national", func() {
		r := rollups.National(s.ctx)
		s.Equal(compliance.LevelNational, r.Level)
		s.Equal(2, r.TotalWards)
		s.Equal(0, r.CompliantWards)
		s.Equal(1, r.CriteriaPassedWards)
		s.Equal(2, r.Criterion1Passed)
		s.Equal(1, r.Criterion5Passed)
	})

	s.Run("province", func() {
		r, err := rollups.Province(s.ctx, geostore.DemoProvinceCode)
		s.Require().NoError(err)
		s.Equal("Gauteng", r.Name)
		s.Equal(2, r.TotalWards)

		_, err = rollups.Province(s.ctx, "WC")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("municipality", func() {
		r, err := rollups.Municipality(s.ctx, geostore.DemoMunicipalityCode)
		s.Require().NoError(err)
		s.Equal(2, r.TotalWards)

		_, err = rollups.Municipality(s.ctx, "CPT")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("municipality wards", func() {
		rows, err := rollups.MunicipalityWards(s.ctx, geostore.DemoMunicipalityCode)
		s.Require().NoError(err)
		s.Require().Len(rows, 2)
		s.Equal(geostore.DemoWardCode, rows[0].Ward.Code)
		s.Require().NotNil(rows[0].Snapshot)
		s.True(rows[0].Snapshot.AllCriteriaPassed)

		_, err = rollups.MunicipalityWards(s.ctx, "CPT")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
