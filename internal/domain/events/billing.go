package events

const (
	EventTypeInvoiceIssued EventType = "billing.invoice.issued.v1"
	EventTypeInvoicePaid   EventType = "billing.invoice.paid.v1"
)

type InvoiceIssuedEvent struct {
	BaseEvent
	InvoiceID   string `json:"invoice_id"`
	PatientID   string `json:"patient_id"`
	ProviderID  string `json:"provider_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func NewInvoiceIssuedEvent(invoiceID, patientID, providerID string, amountCents int64, currency string) InvoiceIssuedEvent {
	return InvoiceIssuedEvent{
		BaseEvent:   NewBaseEvent(EventTypeInvoiceIssued),
		InvoiceID:   invoiceID,
		PatientID:   patientID,
		ProviderID:  providerID,
		AmountCents: amountCents,
		Currency:    currency,
	}
}

type InvoicePaidEvent struct {
	BaseEvent
	InvoiceID   string `json:"invoice_id"`
	PaymentRef  string `json:"payment_ref"`
	AmountCents int64  `json:"amount_cents"`
}

func NewInvoicePaidEvent(invoiceID, paymentRef string, amountCents int64) InvoicePaidEvent {
	return InvoicePaidEvent{
		BaseEvent:   NewBaseEvent(EventTypeInvoicePaid),
		InvoiceID:   invoiceID,
		PaymentRef:  paymentRef,
		AmountCents: amountCents,
	}
}
