package model

import (
	"time"

	"fieldbook/pkg/interval"
)

type Reservation struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID   string       `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	ResourceKind ResourceKind `json:"resource_kind" bson:"resource_kind" validate:"required,oneof=zone material"`
	TeamID       string       `json:"team_id" bson:"team_id" validate:"required,min=1,max=64"`
	Amount       int          `json:"amount" bson:"amount" validate:"required,min=1"`
	StartsAt     time.Time    `json:"starts_at" bson:"starts_at" validate:"required"`
	EndsAt       time.Time    `json:"ends_at" bson:"ends_at" validate:"required"`
	MeetingID    string       `json:"meeting_id,omitempty" bson:"meeting_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
	// CancelledAt marks a soft-deleted reservation. Cancelled rows are
	// excluded from availability but retained for history.
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty" validate:"omitempty"`
}

func (r *Reservation) Interval() interval.Interval {
	return interval.New(r.StartsAt, r.EndsAt)
}

func (r *Reservation) Cancelled() bool {
	return r.CancelledAt != nil
}

type ReservationUpdate struct {
	StartsAt *time.Time `json:"starts_at,omitempty" validate:"omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty" validate:"omitempty"`
	Amount   *int       `json:"amount,omitempty" validate:"omitempty,min=1"`
}

// ReservationFilter narrows listings. Zero values mean no constraint;
// cancelled rows are excluded unless IncludeCancelled is set.
type ReservationFilter struct {
	TeamID           string
	ResourceID       string
	From             *time.Time
	To               *time.Time
	IncludeCancelled bool
}
