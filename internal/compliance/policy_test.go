package compliance

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	t.Run("empty document keeps defaults", func(t *testing.T) {
		p, err := ParsePolicy([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), p)
	})

	t.Run("overrides selected fields", func(t *testing.T) {
		p, err := ParsePolicy([]byte(`
min_ward_members: 150
growth_period: 720h
empty_ward_growth_passes: true
approved_ward_mode: reevaluate
`))
		require.NoError(t, err)
		assert.Equal(t, 150, p.MinWardMembers)
		assert.Equal(t, 720*time.Hour, p.GrowthPeriod)
		assert.True(t, p.EmptyWardGrowthPasses)
		assert.Equal(t, ApprovedWardReevaluate, p.ApprovedWardMode)
		assert.Equal(t, 10, p.MinVotingDistrictMembers)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := ParsePolicy([]byte("min_members: 3\n"))
		require.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := ParsePolicy([]byte("min_voting_district_percentage: 120\n"))
		require.Error(t, err)

		_, err = ParsePolicy([]byte("approved_ward_mode: reopen\n"))
		require.Error(t, err)
	})
}

func TestLoadPolicyFile(t *testing.T) {
	p, err := LoadPolicyFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meeting_window: 0s\n"), 0o600))
	p, err = LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Zero(t, p.MeetingWindow)
	assert.Zero(t, p.Windows().MeetingWindow)

	_, err = LoadPolicyFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
