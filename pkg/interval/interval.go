// Package interval implements half-open time intervals on a single
// canonical UTC timeline. An interval [start, end) excludes its end
// instant, so back-to-back reservations never conflict.
package interval

import (
	"time"

	apperrors "fieldbook/pkg/errors"
)

type Interval struct {
	Start time.Time `json:"starts_at" bson:"starts_at"`
	End   time.Time `json:"ends_at" bson:"ends_at"`
}

// New normalizes both bounds to UTC. Validation is separate so invalid
// candidate intervals can still be carried into error details.
func New(start, end time.Time) Interval {
	return Interval{Start: start.UTC(), End: end.UTC()}
}

// Validate fails when start >= end. Zero-length intervals are forbidden.
func (iv Interval) Validate() error {
	if !iv.Start.Before(iv.End) {
		return apperrors.InvalidInterval(iv.Start, iv.End)
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant:
// a.Start < b.End && b.Start < a.End.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside [Start, End).
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}
