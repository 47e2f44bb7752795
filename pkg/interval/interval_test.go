package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 1, hour, min, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantError bool
	}{
		{"valid interval", at(14, 0), at(16, 0), false},
		{"one minute", at(14, 0), at(14, 1), false},
		{"zero length forbidden", at(14, 0), at(14, 0), true},
		{"inverted", at(16, 0), at(14, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.start, tt.end).Validate()
			if tt.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{"identical", New(at(10, 0), at(12, 0)), New(at(10, 0), at(12, 0)), true},
		{"partial overlap", New(at(10, 0), at(12, 0)), New(at(11, 0), at(13, 0)), true},
		{"contained", New(at(10, 0), at(14, 0)), New(at(11, 0), at(12, 0)), true},
		{"disjoint", New(at(10, 0), at(12, 0)), New(at(13, 0), at(14, 0)), false},
		// One ends exactly when the other starts: half-open ranges do not touch.
		{"back to back", New(at(14, 0), at(16, 0)), New(at(16, 0), at(18, 0)), false},
		{"back to back reversed", New(at(16, 0), at(18, 0)), New(at(14, 0), at(16, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestContains(t *testing.T) {
	iv := New(at(10, 0), at(12, 0))

	assert.True(t, iv.Contains(at(10, 0)), "start instant is included")
	assert.True(t, iv.Contains(at(11, 59)))
	assert.False(t, iv.Contains(at(12, 0)), "end instant is excluded")
	assert.False(t, iv.Contains(at(9, 59)))
}

func TestNew_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	iv := New(time.Date(2024, 3, 1, 13, 0, 0, 0, loc), time.Date(2024, 3, 1, 15, 0, 0, 0, loc))

	require.Equal(t, time.UTC, iv.Start.Location())
	require.Equal(t, at(10, 0), iv.Start)
	require.Equal(t, at(12, 0), iv.End)
}
