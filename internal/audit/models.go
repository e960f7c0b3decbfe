package audit

import (
	"time"

	id "paynroll/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp   time.Time
	AdmissionID id.AdmissionID
	Action      string
	Detail      string
}

// Actions recorded by the admissions flow.
const (
	ActionApplicationCreated = "application_created"
	ActionStatusAccepted     = "status_accepted"
	ActionStatusRejected     = "status_rejected"
	ActionNoteSent           = "note_sent"
	ActionDocumentUploaded   = "document_uploaded"
)
