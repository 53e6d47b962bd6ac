package handlers

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/model"
)

func consentEnvelope(t *testing.T) *events.Envelope {
	t.Helper()
	record := events.NewConsentGrantedEvent("patient-1", "provider-9", "treatment", 0)
	return &events.Envelope{
		Topic:          model.Topic{Name: "consent", ID: "0.0.1001"},
		SequenceNumber: 1,
		Record:         record,
	}
}

func TestDispatchRoutesByEventType(t *testing.T) {
	dispatch := NewDispatchService(slog.Default())

	var got []string
	dispatch.Register(events.EventTypeConsentGranted, func(ctx context.Context, e *events.Envelope) error {
		got = append(got, "granted")
		return nil
	})
	dispatch.Register(events.EventTypeConsentRevoked, func(ctx context.Context, e *events.Envelope) error {
		got = append(got, "revoked")
		return nil
	})

	require.NoError(t, dispatch.Handle(context.Background(), consentEnvelope(t)))
	assert.Equal(t, []string{"granted"}, got)
}

func TestDispatchFanOut(t *testing.T) {
	dispatch := NewDispatchService(slog.Default())

	calls := 0
	for i := 0; i < 3; i++ {
		dispatch.Register(events.EventTypeConsentGranted, func(ctx context.Context, e *events.Envelope) error {
			calls++
			return nil
		})
	}

	require.NoError(t, dispatch.Handle(context.Background(), consentEnvelope(t)))
	assert.Equal(t, 3, calls)
}

func TestDispatchNoConsumerIsNotAnError(t *testing.T) {
	dispatch := NewDispatchService(slog.Default())
	assert.NoError(t, dispatch.Handle(context.Background(), consentEnvelope(t)))
}

func TestDispatchFailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatch := NewDispatchService(slog.Default())

	var reached bool
	dispatch.Register(events.EventTypeConsentGranted, func(ctx context.Context, e *events.Envelope) error {
		return assert.AnError
	})
	dispatch.Register(events.EventTypeConsentGranted, func(ctx context.Context, e *events.Envelope) error {
		reached = true
		return nil
	})

	err := dispatch.Handle(context.Background(), consentEnvelope(t))
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, reached)
}
