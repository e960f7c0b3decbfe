// Package service implements applicant document intake: accepting uploads,
// listing them, and resolving the current artifact per requirement.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	applicantmodels "paynroll/internal/applicant/models"
	"paynroll/internal/audit"
	"paynroll/internal/document/models"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/platform/sentinel"
	"paynroll/pkg/requestcontext"
)

type ArtifactStore interface {
	Insert(ctx context.Context, a *models.Artifact) error
	ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Artifact, error)
	Current(ctx context.Context, admissionID id.AdmissionID, docType models.DocumentType) (*models.Artifact, error)
	FindByUploadID(ctx context.Context, uploadID id.UploadID) (*models.Artifact, error)
}

// Blob holds upload payloads; the artifact store holds their metadata.
type Blob interface {
	Save(admissionID id.AdmissionID, uploadID id.UploadID, originalName string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// ApplicantFinder verifies the admission exists before an upload is accepted.
type ApplicantFinder interface {
	FindByID(ctx context.Context, admissionID id.AdmissionID) (*applicantmodels.Applicant, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Detail pairs an artifact with the applicant it belongs to.
type Detail struct {
	Artifact  *models.Artifact
	Applicant *applicantmodels.Applicant
}

// Service orchestrates document intake.
type Service struct {
	store          ArtifactStore
	blob           Blob
	applicants     ApplicantFinder
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func New(store ArtifactStore, blob Blob, applicants ApplicantFinder, opts ...Option) *Service {
	s := &Service{store: store, blob: blob, applicants: applicants}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordUpload accepts one upload for an existing admission. The declared
// size and type are checked first; the blob layer re-enforces the size
// ceiling on the actual bytes. A metadata insert failure removes the
// payload so no orphan files accumulate.
func (s *Service) RecordUpload(ctx context.Context, admissionID id.AdmissionID, rawType, filename, mimeType string, declaredSize int64, r io.Reader) (*models.Artifact, error) {
	docType, err := models.ParseDocumentType(rawType)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateFile(filename, mimeType, declaredSize); err != nil {
		return nil, err
	}

	if _, err := s.applicants.FindByID(ctx, admissionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}

	now := requestcontext.Now(ctx)
	uploadID, err := id.NewUploadID(now)
	if err != nil {
		return nil, err
	}

	path, size, err := s.blob.Save(admissionID, uploadID, filename, r)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePayloadTooLarge) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store upload")
	}

	artifact := &models.Artifact{
		UploadID:     uploadID,
		AdmissionID:  admissionID,
		DocumentType: docType,
		FileName:     filename,
		FilePath:     path,
		FileSize:     size,
		MimeType:     mimeType,
		UploadedAt:   now,
	}
	if err := s.store.Insert(ctx, artifact); err != nil {
		_ = s.blob.Remove(path)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record upload")
	}

	if s.auditPublisher != nil {
		_ = s.auditPublisher.Emit(ctx, audit.Event{
			Timestamp:   now,
			AdmissionID: admissionID,
			Action:      audit.ActionDocumentUploaded,
			Detail:      string(docType),
		})
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "document uploaded",
			"admission_id", admissionID,
			"upload_id", uploadID,
			"document_type", docType,
			"size", size,
			"request_id", requestcontext.RequestID(ctx))
	}
	return artifact, nil
}

// ListByAdmission returns every artifact for an admission, newest first.
func (s *Service) ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Artifact, error) {
	out, err := s.store.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return out, nil
}

// Current resolves the newest artifact satisfying one requirement.
func (s *Service) Current(ctx context.Context, admissionID id.AdmissionID, rawType string) (*models.Artifact, error) {
	docType, err := models.ParseDocumentType(rawType)
	if err != nil {
		return nil, err
	}
	a, err := s.store.Current(ctx, admissionID, docType)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	return a, nil
}

// FindByUploadID resolves one artifact together with its applicant.
func (s *Service) FindByUploadID(ctx context.Context, uploadID id.UploadID) (*Detail, error) {
	a, err := s.store.FindByUploadID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
	}
	applicant, err := s.applicants.FindByID(ctx, a.AdmissionID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}
	return &Detail{Artifact: a, Applicant: applicant}, nil
}

// Open returns the stored payload for serving.
func (s *Service) Open(_ context.Context, a *models.Artifact) (io.ReadCloser, error) {
	rc, err := s.blob.Open(a.FilePath)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open upload")
	}
	return rc, nil
}
