package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Zone A1", "Zone A1"},
		{"leading and trailing", "  Zone A1  ", "Zone A1"},
		{"internal runs", "Zone \t  A1", "Zone A1"},
		{"only whitespace", " \t\n ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrimAndNormalize_Idempotent(t *testing.T) {
	input := "  Rope   (50m)  "
	once := TrimAndNormalize(input)
	twice := TrimAndNormalize(once)
	if once != twice {
		t.Errorf("normalization not idempotent: %q vs %q", once, twice)
	}
}

func TestNormalizeTeamID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "team-alpha", "team-alpha"},
		{"mixed case with space", "Team Alpha", "team-alpha"},
		{"punctuation stripped", "team_alpha!", "teamalpha"},
		{"unicode letters kept", "équipe-bleue", "équipe-bleue"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTeamID(tt.input); got != tt.expected {
				t.Errorf("NormalizeTeamID(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
