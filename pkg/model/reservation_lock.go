package model

import "time"

// ReservationLock is an advisory lock serializing admission checks per
// resource. Its _id is the resource id, so a second concurrent admission
// against the same resource fails the insert with a duplicate key.
// A TTL index on expires_at reaps locks leaked by crashed writers.
type ReservationLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
