package port

import (
	"context"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
)

// RecordHandler processes one decoded record. A non-nil error is logged by
// the poller; it does not stop the subscription.
type RecordHandler func(ctx context.Context, envelope *events.Envelope) error

// RecordPublisher appends typed records to a named channel.
type RecordPublisher interface {
	Publish(ctx context.Context, topicName string, record events.Event) (SubmitReceipt, error)
}
