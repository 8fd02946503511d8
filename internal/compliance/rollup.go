package compliance

import "time"

// Level is the geographic level of a rollup.
type Level string

const (
	LevelNational     Level = "national"
	LevelProvince     Level = "province"
	LevelMunicipality Level = "municipality"
)

// Rollup counts ward outcomes over a region. It is computed from cached
// snapshots only and never triggers evaluation.
type Rollup struct {
	Level               Level      `json:"level"`
	Code                string     `json:"code,omitempty"`
	Name                string     `json:"name,omitempty"`
	TotalWards          int        `json:"total_wards"`
	CompliantWards      int        `json:"compliant_wards"`
	CriteriaPassedWards int        `json:"criteria_passed_wards"`
	Criterion1Passed    int        `json:"criterion_1_passed"`
	Criterion2Passed    int        `json:"criterion_2_passed"`
	Criterion3Passed    int        `json:"criterion_3_passed"`
	Criterion4Passed    int        `json:"criterion_4_passed"`
	Criterion5Passed    int        `json:"criterion_5_passed"`
	OldestComputedAt    *time.Time `json:"oldest_computed_at,omitempty"`
}

// BuildRollup counts the given snapshots.
func BuildRollup(level Level, code, name string, snaps []*Snapshot) Rollup {
	r := Rollup{Level: level, Code: code, Name: name}
	for _, s := range snaps {
		r.TotalWards++
		if s.IsCompliant {
			r.CompliantWards++
		}
		if s.AllCriteriaPassed {
			r.CriteriaPassedWards++
		}
		flags := s.Criteria.PassedFlags()
		counters := [5]*int{&r.Criterion1Passed, &r.Criterion2Passed, &r.Criterion3Passed, &r.Criterion4Passed, &r.Criterion5Passed}
		for i, passed := range flags {
			if passed {
				*counters[i]++
			}
		}
		if r.OldestComputedAt == nil || s.ComputedAt.Before(*r.OldestComputedAt) {
			t := s.ComputedAt
			r.OldestComputedAt = &t
		}
	}
	return r
}
