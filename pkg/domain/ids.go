// Package domain defines the typed identifiers shared by every slice.
//
// IDs are generated locally from crypto/rand with no storage round trip;
// uniqueness is backstopped by database unique constraints, so a collision
// surfaces as a recoverable conflict rather than a crash. Typed IDs prevent
// cross-type assignment at compile time.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	dErrors "paynroll/pkg/domain-errors"
)

// AdmissionID identifies one application record for its whole lifecycle.
// Shape: ADM-<year>-<12 lowercase hex> (48 random bits).
type AdmissionID string

// UploadID identifies one document artifact.
// Shape: UPL-<unix milliseconds>-<8 lowercase hex> (32 random bits).
type UploadID string

// NotificationID identifies one notification record.
type NotificationID uuid.UUID

var (
	admissionIDPattern = regexp.MustCompile(`^ADM-\d{4}-[0-9a-f]{12}$`)
	uploadIDPattern    = regexp.MustCompile(`^UPL-\d{10,16}-[0-9a-f]{8}$`)
)

// NewAdmissionID generates an admission ID stamped with now's year.
func NewAdmissionID(now time.Time) (AdmissionID, error) {
	suffix, err := randomHex(6)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate admission id")
	}
	return AdmissionID(fmt.Sprintf("ADM-%04d-%s", now.Year(), suffix)), nil
}

// ParseAdmissionID validates the shape of an externally supplied admission ID.
func ParseAdmissionID(s string) (AdmissionID, error) {
	if !admissionIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid admission id")
	}
	return AdmissionID(s), nil
}

func (id AdmissionID) String() string { return string(id) }

// NewUploadID generates an upload ID stamped with now's unix milliseconds.
func NewUploadID(now time.Time) (UploadID, error) {
	suffix, err := randomHex(4)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "generate upload id")
	}
	return UploadID(fmt.Sprintf("UPL-%d-%s", now.UnixMilli(), suffix)), nil
}

// ParseUploadID validates the shape of an externally supplied upload ID.
func ParseUploadID(s string) (UploadID, error) {
	if !uploadIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid upload id")
	}
	return UploadID(s), nil
}

func (id UploadID) String() string { return string(id) }

// NewNotificationID generates a random notification ID.
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New())
}

// ParseNotificationID validates an externally supplied notification ID.
// Nil UUIDs are rejected: no record is ever created with one.
func ParseNotificationID(s string) (NotificationID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return NotificationID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid notification id")
	}
	if parsed == uuid.Nil {
		return NotificationID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid notification id")
	}
	return NotificationID(parsed), nil
}

func (id NotificationID) String() string { return uuid.UUID(id).String() }

// MarshalText renders the canonical UUID form so the ID serializes as a
// string in JSON.
func (id NotificationID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NotificationID) UnmarshalText(b []byte) error {
	parsed, err := ParseNotificationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
