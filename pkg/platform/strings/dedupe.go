// Package strings normalizes configured name lists such as approver roles.
package strings

import (
	"strings"
)

// NormalizeSet lowercases and trims each element, dropping empties and
// duplicates. Order of first occurrence is preserved.
//
//	NormalizeSet([]string{" National_Secretary ", "", "national_secretary"})
//	// Returns: []string{"national_secretary"}
func NormalizeSet(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ContainsNormalized reports whether v, normalized like NormalizeSet, is in set.
// set is expected to be normalized already.
func ContainsNormalized(set []string, v string) bool {
	n := normalize(v)
	if n == "" {
		return false
	}
	for _, s := range set {
		if s == n {
			return true
		}
	}
	return false
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
