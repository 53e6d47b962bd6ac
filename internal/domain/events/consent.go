package events

const (
	EventTypeConsentGranted EventType = "consent.granted.v1"
	EventTypeConsentRevoked EventType = "consent.revoked.v1"
)

// ConsentGrantedEvent records a patient granting a provider access to a
// scope of their records.
type ConsentGrantedEvent struct {
	BaseEvent
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	Scope      string `json:"scope,omitempty"`
	ExpiresAt  int64  `json:"expires_at,omitempty"` // epoch millis, 0 = no expiry
}

func NewConsentGrantedEvent(patientID, providerID, scope string, expiresAt int64) ConsentGrantedEvent {
	return ConsentGrantedEvent{
		BaseEvent:  NewBaseEvent(EventTypeConsentGranted),
		PatientID:  patientID,
		ProviderID: providerID,
		Scope:      scope,
		ExpiresAt:  expiresAt,
	}
}

type ConsentRevokedEvent struct {
	BaseEvent
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	Reason     string `json:"reason,omitempty"`
}

func NewConsentRevokedEvent(patientID, providerID, reason string) ConsentRevokedEvent {
	return ConsentRevokedEvent{
		BaseEvent:  NewBaseEvent(EventTypeConsentRevoked),
		PatientID:  patientID,
		ProviderID: providerID,
		Reason:     reason,
	}
}
