package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSet(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims and lowercases",
			input:    []string{"  National_Secretary ", "PROVINCIAL_SECRETARY"},
			expected: []string{"national_secretary", "provincial_secretary"},
		},
		{
			name:     "drops case-insensitive duplicates preserving order",
			input:    []string{"b", "A", "B", "a"},
			expected: []string{"b", "a"},
		},
		{
			name:     "only blanks",
			input:    []string{"", "  ", "\t"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSet(tt.input))
		})
	}
}

func TestContainsNormalized(t *testing.T) {
	set := NormalizeSet([]string{"national_secretary", "provincial_secretary"})

	assert.True(t, ContainsNormalized(set, "national_secretary"))
	assert.True(t, ContainsNormalized(set, " Provincial_Secretary "))
	assert.False(t, ContainsNormalized(set, "branch_secretary"))
	assert.False(t, ContainsNormalized(set, ""))
	assert.False(t, ContainsNormalized(nil, "national_secretary"))
}
