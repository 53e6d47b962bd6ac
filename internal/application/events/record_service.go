package events

import (
	"context"
	"log/slog"

	domEvents "github.com/trinnode/AfriHealthv2-sub003/internal/domain/events"
	"github.com/trinnode/AfriHealthv2-sub003/internal/domain/port"
	"github.com/trinnode/AfriHealthv2-sub003/internal/topics"
)

// RecordService is the typed publishing surface for the business
// subsystems: it builds stamped records and hands them to the relay.
type RecordService struct {
	publisher port.RecordPublisher
	logger    *slog.Logger
}

func NewRecordService(publisher port.RecordPublisher, logger *slog.Logger) *RecordService {
	return &RecordService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *RecordService) PublishConsentGranted(ctx context.Context, patientID, providerID, scope string, expiresAt int64) (port.SubmitReceipt, error) {
	event := domEvents.NewConsentGrantedEvent(patientID, providerID, scope, expiresAt)
	return s.publish(ctx, topics.Consent, event)
}

func (s *RecordService) PublishConsentRevoked(ctx context.Context, patientID, providerID, reason string) (port.SubmitReceipt, error) {
	event := domEvents.NewConsentRevokedEvent(patientID, providerID, reason)
	return s.publish(ctx, topics.Consent, event)
}

func (s *RecordService) PublishInvoiceIssued(ctx context.Context, invoiceID, patientID, providerID string, amountCents int64, currency string) (port.SubmitReceipt, error) {
	event := domEvents.NewInvoiceIssuedEvent(invoiceID, patientID, providerID, amountCents, currency)
	return s.publish(ctx, topics.Billing, event)
}

func (s *RecordService) PublishInvoicePaid(ctx context.Context, invoiceID, paymentRef string, amountCents int64) (port.SubmitReceipt, error) {
	event := domEvents.NewInvoicePaidEvent(invoiceID, paymentRef, amountCents)
	return s.publish(ctx, topics.Billing, event)
}

func (s *RecordService) PublishClaimSubmitted(ctx context.Context, claimID, patientID, providerID, invoiceID string, amountCents int64, diagnosisCodes []string) (port.SubmitReceipt, error) {
	event := domEvents.NewClaimSubmittedEvent(claimID, patientID, providerID, invoiceID, amountCents, diagnosisCodes)
	return s.publish(ctx, topics.Claims, event)
}

func (s *RecordService) PublishClaimAdjudicated(ctx context.Context, claimID string, approved bool, approvedCents int64, reason string) (port.SubmitReceipt, error) {
	event := domEvents.NewClaimAdjudicatedEvent(claimID, approved, approvedCents, reason)
	return s.publish(ctx, topics.Claims, event)
}

func (s *RecordService) publish(ctx context.Context, topicName string, event domEvents.Event) (port.SubmitReceipt, error) {
	receipt, err := s.publisher.Publish(ctx, topicName, event)
	if err != nil {
		s.logger.Error("Failed to publish record",
			"topic", topicName,
			"event_type", string(event.GetEventType()),
			"event_id", event.GetEventID(),
			"error", err,
		)
		return port.SubmitReceipt{}, err
	}
	return receipt, nil
}
