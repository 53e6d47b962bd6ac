package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// BaseEvent carries the fields every relayed record shares. EventID doubles
// as the caller-supplied idempotency token: the relay delivers at least once
// and consumers deduplicate on it.
type BaseEvent struct {
	EventID   string            `json:"event_id"`
	EventType EventType         `json:"event_type"`
	Timestamp int64             `json:"timestamp"` // epoch millis
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UnixMilli(),
	}
}

type Event interface {
	GetEventID() string
	GetEventType() EventType
	GetTimestamp() int64
}

func (e BaseEvent) GetEventID() string {
	return e.EventID
}

func (e BaseEvent) GetEventType() EventType {
	return e.EventType
}

func (e BaseEvent) GetTimestamp() int64 {
	return e.Timestamp
}

// init stamps a freshly created record, keeping any payload fields that were
// already decoded into it.
func (e *BaseEvent) init(eventType EventType, metadata map[string]string) {
	e.EventID = uuid.New().String()
	e.EventType = eventType
	e.Timestamp = time.Now().UnixMilli()
	e.Metadata = metadata
}
