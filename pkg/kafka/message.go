package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message is a broker-agnostic event envelope. Key is the partition key;
// reservation events use the resource id so one resource's history stays
// ordered.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderSchemaVersion = "schema-version"
	HeaderSource        = "source"
	HeaderTimestamp     = "timestamp"
)

// NewMessage builds an envelope with a generated event id. The payload
// is JSON-encoded; encoding errors surface at publish time as an empty
// value rejection.
func NewMessage(key, eventType, source string, payload any) Message {
	value, _ := json.Marshal(payload)

	now := time.Now().UTC()
	return Message{
		Key:       key,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:       uuid.New().String(),
			HeaderEventType:     eventType,
			HeaderSource:        source,
			HeaderSchemaVersion: "1",
			HeaderTimestamp:     now.Format(time.RFC3339),
		},
	}
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) EventType() string {
	return m.Headers[HeaderEventType]
}
