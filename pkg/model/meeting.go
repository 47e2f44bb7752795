package model

import "time"

type MeetingType string

const (
	MeetingTypePreparation MeetingType = "preparation"
	MeetingTypeMeeting     MeetingType = "meeting"
)

// Meeting is a logical key a field reservation may attach to for
// reporting. The (team_id, date, type) tuple is unique at the storage
// layer; Resolve reuses an existing row instead of creating a second one.
type Meeting struct {
	ID        string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TeamID    string      `json:"team_id" bson:"team_id" validate:"required,min=1,max=64"`
	Date      string      `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Type      MeetingType `json:"type" bson:"type" validate:"required,oneof=preparation meeting"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}
