// Package models defines applicant document artifacts and the upload
// acceptance rules.
package models

import (
	"path/filepath"
	"strings"
	"time"

	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
)

// MaxFileSize is the upload ceiling.
const MaxFileSize = 5 << 20

// DocumentType identifies which admission requirement an upload satisfies.
type DocumentType string

const (
	TypeBirthCertificate DocumentType = "birth_certificate"
	TypeForm137          DocumentType = "form137"
	TypeSHSTranscript    DocumentType = "shs_transcript"
	TypePicture          DocumentType = "2x2_picture"
)

var documentTypes = map[DocumentType]bool{
	TypeBirthCertificate: true,
	TypeForm137:          true,
	TypeSHSTranscript:    true,
	TypePicture:          true,
}

// ParseDocumentType validates an externally supplied document type.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !documentTypes[t] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid document type")
	}
	return t, nil
}

// Artifact is one stored upload. Uploads are append-only: re-uploading a
// document type adds a new artifact, and the newest one is current.
type Artifact struct {
	UploadID     id.UploadID    `json:"upload_id"`
	AdmissionID  id.AdmissionID `json:"admission_id"`
	DocumentType DocumentType   `json:"document_type"`
	FileName     string         `json:"file_name"`
	FilePath     string         `json:"file_path"`
	FileSize     int64          `json:"file_size"`
	MimeType     string         `json:"mime_type"`
	UploadedAt   time.Time      `json:"uploaded_at"`
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"application/pdf": true,
}

// ValidateFile applies the acceptance rules to an incoming upload. Both the
// extension and the declared content type must be on the allowlist.
func ValidateFile(filename, mimeType string, size int64) error {
	if size > MaxFileSize {
		return dErrors.New(dErrors.CodePayloadTooLarge, "file exceeds the 5MB limit")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] || !allowedMimeTypes[strings.ToLower(mimeType)] {
		return dErrors.New(dErrors.CodeUnsupportedMedia, "only JPEG, PNG, and PDF files are accepted")
	}
	return nil
}
