package models

import (
	"time"

	id "paynroll/pkg/domain"
)

// Record types as stored on notification rows.
const (
	TypeInfo     = "info"
	TypeDecision = "decision"
)

// Record is one persisted notification. Records are append-only; delivery
// success is tracked separately and never mutates a record.
type Record struct {
	NotificationID id.NotificationID `json:"notification_id"`
	AdmissionID    id.AdmissionID    `json:"admission_id"`
	Message        string            `json:"message"`
	Type           string            `json:"notification_type"`
	IsRead         bool              `json:"is_read"`
	CreatedAt      time.Time         `json:"created_at"`
}
