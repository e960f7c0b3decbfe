package models

import dErrors "paynroll/pkg/domain-errors"

// Status is the lifecycle state of an application.
//
// Transitions: pending -> accepted | rejected. Accepted and rejected are
// terminal; re-deciding a terminal record requires the override flag and is
// otherwise a conflict.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus validates an externally supplied decision status.
// Only terminal decisions are accepted from callers; records are born pending.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAccepted, StatusRejected:
		return Status(s), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "invalid status provided")
	}
}

// IsTerminal reports whether the status is a final decision.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo reports whether a record in this status may move to
// target. allowOverride permits re-deciding a terminal record.
func (s Status) CanTransitionTo(target Status, allowOverride bool) bool {
	if !target.IsTerminal() {
		return false
	}
	if s == StatusPending {
		return true
	}
	return allowOverride
}
