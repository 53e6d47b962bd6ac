package events

import (
	"encoding/json"
	"reflect"

	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

var eventRegistry = make(map[EventType]reflect.Type)

func RegisterEvent(eventType EventType, event interface{}) {
	eventRegistry[eventType] = reflect.TypeOf(event)
}

// CreateEvent returns a zero-valued pointer to the struct registered for
// the given type.
func CreateEvent(eventType EventType) (Event, error) {
	t, ok := eventRegistry[eventType]
	if !ok {
		return nil, errors.NewDecodeError("unknown event type").
			WithContext("event_type", string(eventType))
	}
	event, ok := reflect.New(t).Interface().(Event)
	if !ok {
		return nil, errors.NewInternalError("registered type does not implement Event").
			WithContext("event_type", string(eventType))
	}
	return event, nil
}

// NewRecord builds a stamped record of the given type from a raw payload
// (the domain fields only, as submitted by API callers).
func NewRecord(eventType EventType, payload []byte, metadata map[string]string) (Event, error) {
	record, err := CreateEvent(eventType)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, record); err != nil {
			return nil, errors.WrapDecodeError(err, "invalid record payload")
		}
	}
	record.(interface {
		init(EventType, map[string]string)
	}).init(eventType, metadata)
	return record, nil
}

// DecodeRecord reconstructs a typed record from serialized bytes, using the
// embedded event_type field to pick the registered struct.
func DecodeRecord(serializer EventSerializer, data []byte) (Event, error) {
	var head struct {
		EventType EventType `json:"event_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.WrapDecodeError(err, "malformed event envelope")
	}
	record, err := CreateEvent(head.EventType)
	if err != nil {
		return nil, err
	}
	if err := serializer.Deserialize(data, record); err != nil {
		return nil, err
	}
	return record, nil
}

func init() {
	RegisterEvent(EventTypeConsentGranted, ConsentGrantedEvent{})
	RegisterEvent(EventTypeConsentRevoked, ConsentRevokedEvent{})
	RegisterEvent(EventTypeInvoiceIssued, InvoiceIssuedEvent{})
	RegisterEvent(EventTypeInvoicePaid, InvoicePaidEvent{})
	RegisterEvent(EventTypeClaimSubmitted, ClaimSubmittedEvent{})
	RegisterEvent(EventTypeClaimAdjudicated, ClaimAdjudicatedEvent{})
}
