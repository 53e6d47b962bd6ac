package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
)

// DispatchService routes decoded records to the consumer handlers
// registered for their event type. It is itself a port.RecordHandler, so it
// plugs straight into a poller subscription.
type DispatchService struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[events.EventType][]port.RecordHandler
}

func NewDispatchService(logger *slog.Logger) *DispatchService {
	return &DispatchService{
		logger:   logger,
		handlers: make(map[events.EventType][]port.RecordHandler),
	}
}

// Register adds a consumer handler for one event type. Multiple handlers per
// type all receive the record.
func (d *DispatchService) Register(eventType events.EventType, handler port.RecordHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Handle routes one envelope. Records nobody consumes are skipped; a failing
// handler does not stop delivery to the others.
func (d *DispatchService) Handle(ctx context.Context, envelope *events.Envelope) error {
	eventType := envelope.Record.GetEventType()

	d.mu.RLock()
	handlers := d.handlers[eventType]
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.logger.Debug("No consumer for record",
			"topic", envelope.Topic.Name,
			"event_type", string(eventType),
			"sequence_number", envelope.SequenceNumber,
		)
		return nil
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, envelope); err != nil {
			d.logger.Error("Consumer handler failed",
				"topic", envelope.Topic.Name,
				"event_type", string(eventType),
				"event_id", envelope.Record.GetEventID(),
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
