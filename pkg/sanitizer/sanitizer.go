// Package sanitizer normalizes free-form input before validation and
// storage. All functions are idempotent and handle invalid input by
// returning empty strings rather than errors.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var reTeamID = regexp.MustCompile(`[^0-9\p{L}\-]+`)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs to single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans display names for zones and materials.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeTeamID lowercases a team reference and strips everything but
// letters, digits and dashes, so "Team Alpha" and "team-alpha" coincide.
func NormalizeTeamID(team string) string {
	team = strings.ToLower(TrimAndNormalize(team))
	team = strings.ReplaceAll(team, " ", "-")
	return reTeamID.ReplaceAllString(team, "")
}
