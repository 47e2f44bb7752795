package model

import "time"

// MeetingKey is the optional natural key a booking may attach to. The
// owning team is implied by the reservation itself.
type MeetingKey struct {
	Date string      `json:"date" validate:"required,datetime=2006-01-02"`
	Type MeetingType `json:"type" validate:"required,oneof=preparation meeting"`
}

type BookingRequest struct {
	ResourceID string      `json:"resource_id" validate:"required,mongodb"`
	Amount     int         `json:"amount" validate:"omitempty,min=1"`
	StartsAt   time.Time   `json:"starts_at" validate:"required"`
	EndsAt     time.Time   `json:"ends_at" validate:"required"`
	Meeting    *MeetingKey `json:"meeting,omitempty" validate:"omitempty"`
}
