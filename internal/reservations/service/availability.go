package service

import (
	"context"
	"sort"

	"fieldbook/internal/reservations/repository"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/interval"
	"fieldbook/pkg/model"
)

// AvailabilityEngine answers capacity questions against committed,
// non-cancelled reservations. Answers are advisory outside the admission
// lock; BookingCoordinator re-asks inside the lock before committing.
type AvailabilityEngine interface {
	// IsFree reports whether the resource has no active reservation
	// overlapping iv, ignoring excludeID.
	IsFree(ctx context.Context, resourceID string, iv interval.Interval, excludeID string) (bool, error)
	// AvailableQuantity returns totalQuantity minus the peak concurrent
	// usage inside iv. Negative results are possible after a resource's
	// total quantity was lowered below existing commitments.
	AvailableQuantity(ctx context.Context, resource *model.Resource, iv interval.Interval, excludeID string) (int, error)
}

type availabilityEngine struct {
	reservations repository.ReservationRepository
}

func NewAvailabilityEngine(reservations repository.ReservationRepository) AvailabilityEngine {
	return &availabilityEngine{reservations: reservations}
}

func (e *availabilityEngine) IsFree(ctx context.Context, resourceID string, iv interval.Interval, excludeID string) (bool, error) {
	if err := iv.Validate(); err != nil {
		return false, err
	}

	overlapping, err := e.reservations.FindActiveOverlapping(ctx, resourceID, iv, excludeID)
	if err != nil {
		return false, apperrors.StorageUnavailable(err)
	}
	return len(overlapping) == 0, nil
}

func (e *availabilityEngine) AvailableQuantity(ctx context.Context, resource *model.Resource, iv interval.Interval, excludeID string) (int, error) {
	if err := iv.Validate(); err != nil {
		return 0, err
	}

	overlapping, err := e.reservations.FindActiveOverlapping(ctx, resource.ID, iv, excludeID)
	if err != nil {
		return 0, apperrors.StorageUnavailable(err)
	}

	if resource.Exclusive() {
		// Zones have no countable pool. One overlap means taken.
		if len(overlapping) > 0 {
			return 0, nil
		}
		return 1, nil
	}

	return resource.TotalQuantity - peakUsage(overlapping, iv), nil
}

// peakUsage sweeps the amount deltas of the overlapping reservations,
// clamped to iv, and returns the highest concurrent sum. Ends release
// before starts claim at the same instant, matching the half-open
// interval model.
func peakUsage(overlapping []*model.Reservation, iv interval.Interval) int {
	type event struct {
		at    int64
		delta int
	}

	events := make([]event, 0, len(overlapping)*2)
	for _, res := range overlapping {
		start := res.StartsAt
		if start.Before(iv.Start) {
			start = iv.Start
		}
		end := res.EndsAt
		if end.After(iv.End) {
			end = iv.End
		}
		events = append(events,
			event{at: start.UnixNano(), delta: res.Amount},
			event{at: end.UnixNano(), delta: -res.Amount},
		)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].delta < events[j].delta
	})

	peak, current := 0, 0
	for _, ev := range events {
		current += ev.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}
