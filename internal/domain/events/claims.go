package events

const (
	EventTypeClaimSubmitted   EventType = "claims.claim.submitted.v1"
	EventTypeClaimAdjudicated EventType = "claims.claim.adjudicated.v1"
)

type ClaimSubmittedEvent struct {
	BaseEvent
	ClaimID        string   `json:"claim_id"`
	PatientID      string   `json:"patient_id"`
	ProviderID     string   `json:"provider_id"`
	InvoiceID      string   `json:"invoice_id,omitempty"`
	AmountCents    int64    `json:"amount_cents"`
	DiagnosisCodes []string `json:"diagnosis_codes,omitempty"`
}

func NewClaimSubmittedEvent(claimID, patientID, providerID, invoiceID string, amountCents int64, diagnosisCodes []string) ClaimSubmittedEvent {
	return ClaimSubmittedEvent{
		BaseEvent:      NewBaseEvent(EventTypeClaimSubmitted),
		ClaimID:        claimID,
		PatientID:      patientID,
		ProviderID:     providerID,
		InvoiceID:      invoiceID,
		AmountCents:    amountCents,
		DiagnosisCodes: diagnosisCodes,
	}
}

type ClaimAdjudicatedEvent struct {
	BaseEvent
	ClaimID       string `json:"claim_id"`
	Approved      bool   `json:"approved"`
	ApprovedCents int64  `json:"approved_cents,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func NewClaimAdjudicatedEvent(claimID string, approved bool, approvedCents int64, reason string) ClaimAdjudicatedEvent {
	return ClaimAdjudicatedEvent{
		BaseEvent:     NewBaseEvent(EventTypeClaimAdjudicated),
		ClaimID:       claimID,
		Approved:      approved,
		ApprovedCents: approvedCents,
		Reason:        reason,
	}
}
