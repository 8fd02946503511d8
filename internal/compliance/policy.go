package compliance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wardaudit/internal/facts"
)

// ApprovedWardMode selects how refreshes treat a ward that already has an approval.
type ApprovedWardMode string

const (
	// ApprovedWardFreeze reports the criteria recorded on the approval. Approval is
	// sticky and is_compliant implies all_criteria_passed.
	ApprovedWardFreeze ApprovedWardMode = "freeze"
	// ApprovedWardReevaluate recomputes criteria; is_compliant requires both the
	// approval and currently passing criteria.
	ApprovedWardReevaluate ApprovedWardMode = "reevaluate"
)

// Policy holds every threshold the evaluators use.
type Policy struct {
	MinWardMembers              int     `yaml:"min_ward_members"`
	MinVotingDistrictMembers    int     `yaml:"min_voting_district_members"`
	MinVotingDistrictPercentage float64 `yaml:"min_voting_district_percentage"`

	GrowthPeriod time.Duration `yaml:"growth_period"`
	// ZeroBaselineGrowthRate is the growth rate reported when the previous period
	// had no members and the current one has some.
	ZeroBaselineGrowthRate float64 `yaml:"zero_baseline_growth_rate"`
	// EmptyWardGrowthPasses decides criterion 2 when both periods are empty.
	EmptyWardGrowthPasses bool `yaml:"empty_ward_growth_passes"`

	MeetingWindow         time.Duration `yaml:"meeting_window"`
	RequireVerifiedQuorum bool          `yaml:"require_verified_quorum"`

	ApprovedWardMode ApprovedWardMode `yaml:"approved_ward_mode"`
}

// DefaultPolicy returns the organisation's published thresholds.
func DefaultPolicy() Policy {
	w := facts.DefaultWindows()
	return Policy{
		MinWardMembers:              100,
		MinVotingDistrictMembers:    10,
		MinVotingDistrictPercentage: 50,
		GrowthPeriod:                w.GrowthPeriod,
		ZeroBaselineGrowthRate:      100,
		EmptyWardGrowthPasses:       false,
		MeetingWindow:               w.MeetingWindow,
		RequireVerifiedQuorum:       false,
		ApprovedWardMode:            ApprovedWardFreeze,
	}
}

// Windows returns the fact windows implied by the policy.
func (p Policy) Windows() facts.Windows {
	return facts.Windows{GrowthPeriod: p.GrowthPeriod, MeetingWindow: p.MeetingWindow}
}

// Validate rejects policies the evaluators cannot apply.
func (p Policy) Validate() error {
	if p.MinWardMembers < 0 || p.MinVotingDistrictMembers < 0 {
		return fmt.Errorf("member thresholds cannot be negative")
	}
	if p.MinVotingDistrictPercentage < 0 || p.MinVotingDistrictPercentage > 100 {
		return fmt.Errorf("min_voting_district_percentage must be within [0, 100], got %v", p.MinVotingDistrictPercentage)
	}
	if p.GrowthPeriod <= 0 {
		return fmt.Errorf("growth_period must be positive, got %s", p.GrowthPeriod)
	}
	if p.MeetingWindow < 0 {
		return fmt.Errorf("meeting_window cannot be negative, got %s", p.MeetingWindow)
	}
	switch p.ApprovedWardMode {
	case ApprovedWardFreeze, ApprovedWardReevaluate:
	default:
		return fmt.Errorf("unknown approved_ward_mode %q", p.ApprovedWardMode)
	}
	return nil
}

// LoadPolicyFile reads a YAML policy. Fields absent from the file keep their defaults.
func LoadPolicyFile(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy over the defaults.
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}
