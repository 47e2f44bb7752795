package service

import (
	"context"
	"testing"
	"time"

	"fieldbook/pkg/interval"
	"fieldbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hold(amount int, start, end time.Time) *model.Reservation {
	return &model.Reservation{
		ResourceID: ropeObjectID,
		Amount:     amount,
		StartsAt:   start,
		EndsAt:     end,
	}
}

func TestPeakUsage_ConcurrentHoldsStack(t *testing.T) {
	iv := interval.New(at(9, 0), at(13, 0))
	peak := peakUsage([]*model.Reservation{
		hold(2, at(9, 0), at(11, 0)),
		hold(3, at(10, 0), at(12, 0)),
	}, iv)
	assert.Equal(t, 5, peak)
}

func TestPeakUsage_DisjointHoldsDoNotStack(t *testing.T) {
	iv := interval.New(at(9, 0), at(13, 0))
	peak := peakUsage([]*model.Reservation{
		hold(2, at(9, 0), at(10, 0)),
		hold(2, at(12, 0), at(13, 0)),
	}, iv)
	assert.Equal(t, 2, peak)
}

func TestPeakUsage_BackToBackHoldsDoNotStack(t *testing.T) {
	// The earlier hold releases at the instant the later one claims.
	iv := interval.New(at(9, 0), at(13, 0))
	peak := peakUsage([]*model.Reservation{
		hold(3, at(9, 0), at(11, 0)),
		hold(3, at(11, 0), at(13, 0)),
	}, iv)
	assert.Equal(t, 3, peak)
}

func TestPeakUsage_HoldsClampedToWindow(t *testing.T) {
	// A hold straddling the window only counts inside it.
	iv := interval.New(at(10, 0), at(11, 0))
	peak := peakUsage([]*model.Reservation{
		hold(4, at(8, 0), at(12, 0)),
	}, iv)
	assert.Equal(t, 4, peak)
}

func TestAvailableQuantity_ZoneBinary(t *testing.T) {
	store := newFakeReservationStore()
	engine := NewAvailabilityEngine(store)
	zone := &model.Resource{ID: zoneObjectID, Kind: model.ResourceKindZone, Active: true}
	ctx := context.Background()

	available, err := engine.AvailableQuantity(ctx, zone, interval.New(at(10, 0), at(11, 0)), "")
	require.NoError(t, err)
	assert.Equal(t, 1, available)

	require.NoError(t, store.Insert(ctx, &model.Reservation{
		ResourceID: zoneObjectID,
		Amount:     1,
		StartsAt:   at(10, 0),
		EndsAt:     at(11, 0),
	}))

	available, err = engine.AvailableQuantity(ctx, zone, interval.New(at(10, 30), at(11, 30)), "")
	require.NoError(t, err)
	assert.Equal(t, 0, available)
}

func TestAvailableQuantity_NegativeAfterPoolShrunk(t *testing.T) {
	store := newFakeReservationStore()
	engine := NewAvailabilityEngine(store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &model.Reservation{
		ResourceID: ropeObjectID,
		Amount:     5,
		StartsAt:   at(10, 0),
		EndsAt:     at(11, 0),
	}))

	// The pool was reduced to 3 after 5 were committed.
	shrunk := &model.Resource{ID: ropeObjectID, Kind: model.ResourceKindMaterial, TotalQuantity: 3, Active: true}
	available, err := engine.AvailableQuantity(ctx, shrunk, interval.New(at(10, 0), at(11, 0)), "")
	require.NoError(t, err)
	assert.Equal(t, -2, available)
}

func TestIsFree_InvalidIntervalRejected(t *testing.T) {
	engine := NewAvailabilityEngine(newFakeReservationStore())

	_, err := engine.IsFree(context.Background(), zoneObjectID, interval.New(at(11, 0), at(10, 0)), "")
	require.Error(t, err)
}
