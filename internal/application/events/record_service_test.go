package events

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domEvents "github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/infrastructure/consensus"
	"github.com/trinnode/AfriHealthv2-sub003/internal/relay"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
)

func newTestService(t *testing.T) (*RecordService, *consensus.Network) {
	t.Helper()

	registry := topics.NewRegistry()
	require.NoError(t, registry.Register(topics.Consent, "0.0.1001"))
	require.NoError(t, registry.Register(topics.Billing, "0.0.1002"))
	require.NoError(t, registry.Register(topics.Claims, "0.0.1003"))

	network := consensus.NewNetwork()
	publisher := relay.NewPublisher(registry, network, domEvents.NewJSONEventSerializer(), 1024, slog.Default())
	return NewRecordService(publisher, slog.Default()), network
}

func TestPublishConsentGranted(t *testing.T) {
	service, _ := newTestService(t)

	receipt, err := service.PublishConsentGranted(context.Background(), "p-1", "pr-9", "treatment", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.SequenceNumber)
	assert.Equal(t, "0.0.1001", receipt.TopicID.String())
}

func TestEachChannelSequencesIndependently(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.PublishInvoiceIssued(ctx, "inv-1", "p-1", "pr-9", 12500, "KES")
	require.NoError(t, err)
	paid, err := service.PublishInvoicePaid(ctx, "inv-1", "mpesa-001", 12500)
	require.NoError(t, err)

	claim, err := service.PublishClaimSubmitted(ctx, "clm-1", "p-1", "pr-9", "inv-1", 12500, []string{"J06.9"})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), paid.SequenceNumber)
	assert.Equal(t, uint64(1), claim.SequenceNumber)
}

func TestPublishedRecordRoundTrips(t *testing.T) {
	service, network := newTestService(t)
	ctx := context.Background()

	receipt, err := service.PublishClaimAdjudicated(ctx, "clm-1", true, 10000, "approved in full")
	require.NoError(t, err)

	msgs, err := network.TopicMessages(ctx, port.MessageQuery{TopicID: receipt.TopicID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	record, err := domEvents.DecodeRecord(domEvents.NewJSONEventSerializer(), msgs[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, domEvents.EventTypeClaimAdjudicated, record.GetEventType())
}
