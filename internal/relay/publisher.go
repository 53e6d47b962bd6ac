// Package relay moves typed event records onto consensus topics and back
// off the mirror to subscribers.
package relay

import (
	"context"
	"log/slog"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

// Publisher serializes records and submits them to the channel's topic.
// Submission order from one caller is consensus order; retries after a
// transport error may duplicate, so consumers dedupe on EventID.
type Publisher struct {
	registry   *topics.Registry
	consensus  port.ConsensusClient
	serializer events.EventSerializer
	maxPayload int
	logger     *slog.Logger
}

func NewPublisher(
	registry *topics.Registry,
	consensus port.ConsensusClient,
	serializer events.EventSerializer,
	maxPayload int,
	logger *slog.Logger,
) *Publisher {
	return &Publisher{
		registry:   registry,
		consensus:  consensus,
		serializer: serializer,
		maxPayload: maxPayload,
		logger:     logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, topicName string, record events.Event) (port.SubmitReceipt, error) {
	topic, err := p.registry.Resolve(topicName)
	if err != nil {
		return port.SubmitReceipt{}, err
	}

	data, err := p.serializer.Serialize(record)
	if err != nil {
		return port.SubmitReceipt{}, errors.WrapMessagingError(err, "failed to serialize record")
	}

	if p.maxPayload > 0 && len(data) > p.maxPayload {
		return port.SubmitReceipt{}, errors.NewPayloadTooLargeError("record exceeds channel payload limit").
			WithContext("topic", topicName).
			WithContext("size", len(data)).
			WithContext("limit", p.maxPayload)
	}

	receipt, err := p.consensus.SubmitMessage(ctx, topic.ID, data)
	if err != nil {
		p.logger.Error("Failed to submit record",
			"topic", topicName,
			"event_id", record.GetEventID(),
			"error", err,
		)
		if errors.Is(err, errors.ErrorTypeConfiguration) {
			return port.SubmitReceipt{}, err
		}
		return port.SubmitReceipt{}, errors.WrapTransportError(err, "consensus submit failed")
	}

	p.logger.Info("Record published",
		"topic", topicName,
		"event_type", string(record.GetEventType()),
		"event_id", record.GetEventID(),
		"sequence_number", receipt.SequenceNumber,
		"transaction_id", receipt.TransactionID,
	)

	return receipt, nil
}

var _ port.RecordPublisher = (*Publisher)(nil)
