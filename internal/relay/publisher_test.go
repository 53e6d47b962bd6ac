package relay

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/consensus"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/errors"
)

func newTestRegistry(t *testing.T) *topics.Registry {
	t.Helper()
	registry, err := topics.FromConfig(map[string]string{
		topics.Consent: "0.0.1001",
		topics.Billing: "0.0.1002",
	})
	require.NoError(t, err)
	return registry
}

func TestPublisherAssignsSequentialNumbers(t *testing.T) {
	network := consensus.NewNetwork()
	publisher := NewPublisher(newTestRegistry(t), network, events.NewJSONEventSerializer(), 1024, slog.Default())
	ctx := context.Background()

	first, err := publisher.Publish(ctx, topics.Consent, events.NewConsentGrantedEvent("P1", "Pr1", "records:read", 0))
	require.NoError(t, err)
	second, err := publisher.Publish(ctx, topics.Consent, events.NewConsentRevokedEvent("P1", "Pr1", "patient request"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.SequenceNumber)
	assert.Equal(t, uint64(2), second.SequenceNumber)
	assert.NotEmpty(t, first.TransactionID)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)

	// Channels do not share sequence numbers.
	billing, err := publisher.Publish(ctx, topics.Billing, events.NewInvoiceIssuedEvent("I1", "P1", "Pr1", 5000, "KES"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), billing.SequenceNumber)
}

func TestPublisherUnknownTopic(t *testing.T) {
	network := consensus.NewNetwork()
	publisher := NewPublisher(newTestRegistry(t), network, events.NewJSONEventSerializer(), 1024, slog.Default())

	_, err := publisher.Publish(context.Background(), "unknown", events.NewConsentGrantedEvent("P1", "Pr1", "", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}

func TestPublisherPayloadTooLarge(t *testing.T) {
	network := consensus.NewNetwork()
	publisher := NewPublisher(newTestRegistry(t), network, events.NewJSONEventSerializer(), 64, slog.Default())
	ctx := context.Background()

	event := events.NewConsentGrantedEvent("P1", "Pr1", "a very long scope string that will not fit into sixty four bytes", 0)
	_, err := publisher.Publish(ctx, topics.Consent, event)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrorTypePayloadTooLarge))

	// No partial write: the topic stays empty.
	messages, err := network.TopicMessages(ctx, port.MessageQuery{TopicID: "0.0.1001"})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestPublishedRecordRoundTrips(t *testing.T) {
	network := consensus.NewNetwork()
	serializer := events.NewJSONEventSerializer()
	publisher := NewPublisher(newTestRegistry(t), network, serializer, 1024, slog.Default())
	ctx := context.Background()

	original := events.NewClaimSubmittedEvent("C1", "P1", "Pr1", "I1", 12500, []string{"A00.1"})
	_, err := publisher.Publish(ctx, topics.Consent, original)
	require.NoError(t, err)

	messages, err := network.TopicMessages(ctx, port.MessageQuery{TopicID: "0.0.1001"})
	require.NoError(t, err)
	require.Len(t, messages, 1)

	decoded, err := events.DecodeRecord(serializer, messages[0].Payload)
	require.NoError(t, err)
	claim := decoded.(*events.ClaimSubmittedEvent)
	assert.Equal(t, original.EventID, claim.EventID)
	assert.Equal(t, original.ClaimID, claim.ClaimID)
	assert.Equal(t, original.DiagnosisCodes, claim.DiagnosisCodes)
}
