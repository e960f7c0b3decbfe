// Package handler wires the document upload and retrieval endpoints.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"paynroll/internal/document/models"
	"paynroll/internal/document/service"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/platform/httputil"
	"paynroll/pkg/requestcontext"
)

// maxRequestBytes bounds the whole multipart request. Slightly above the
// file ceiling to leave room for form overhead.
const maxRequestBytes = models.MaxFileSize + 1<<20

// Service defines the interface for document operations.
type Service interface {
	RecordUpload(ctx context.Context, admissionID id.AdmissionID, rawType, filename, mimeType string, declaredSize int64, r io.Reader) (*models.Artifact, error)
	ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Artifact, error)
	Current(ctx context.Context, admissionID id.AdmissionID, rawType string) (*models.Artifact, error)
	FindByUploadID(ctx context.Context, uploadID id.UploadID) (*service.Detail, error)
	Open(ctx context.Context, a *models.Artifact) (io.ReadCloser, error)
}

// Handler wires document endpoints to the document service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts document endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/documents/{admission_id}", h.HandleUpload)
	r.Get("/documents/{admission_id}", h.HandleList)
	r.Get("/documents/{admission_id}/current/{document_type}", h.HandleCurrent)
	r.Get("/uploads/{upload_id}", h.HandleDetail)
	r.Get("/uploads/{upload_id}/file", h.HandleDownload)
}

type uploadResponse struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Document *models.Artifact `json:"document"`
}

type listResponse struct {
	Count     int                `json:"count"`
	Documents []*models.Artifact `json:"documents"`
}

type detailResponse struct {
	Document      *models.Artifact `json:"document"`
	ApplicantName string           `json:"applicant_name,omitempty"`
	Email         string           `json:"email,omitempty"`
}

// HandleUpload handles POST /documents/{admission_id} multipart requests.
// Expects a document_type form value and the payload in the file field.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "file exceeds the 5MB limit"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "multipart form required"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "file field is required"))
		return
	}
	defer file.Close()

	artifact, err := h.service.RecordUpload(ctx, admissionID,
		r.FormValue("document_type"), header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.logger.ErrorContext(ctx, "document upload failed",
			"request_id", requestID,
			"admission_id", admissionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "document uploaded",
		"request_id", requestID,
		"admission_id", admissionID,
		"upload_id", artifact.UploadID,
	)
	httputil.WriteJSON(w, http.StatusCreated, uploadResponse{
		Success:  true,
		Message:  "Document uploaded successfully.",
		Document: artifact,
	})
}

// HandleList handles GET /documents/{admission_id} requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	documents, err := h.service.ListByAdmission(r.Context(), admissionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Count: len(documents), Documents: documents})
}

// HandleCurrent handles GET /documents/{admission_id}/current/{document_type}
// requests, returning the newest artifact for one requirement.
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	artifact, err := h.service.Current(r.Context(), admissionID, chi.URLParam(r, "document_type"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, artifact)
}

// HandleDetail handles GET /uploads/{upload_id} requests, returning the
// artifact metadata together with the applicant it belongs to.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	uploadID, err := id.ParseUploadID(chi.URLParam(r, "upload_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := h.service.FindByUploadID(r.Context(), uploadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := detailResponse{Document: detail.Artifact}
	if detail.Applicant != nil {
		resp.ApplicantName = detail.Applicant.FullName()
		resp.Email = detail.Applicant.Email
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDownload handles GET /uploads/{upload_id}/file requests, streaming
// the stored payload.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	uploadID, err := id.ParseUploadID(chi.URLParam(r, "upload_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	detail, err := h.service.FindByUploadID(r.Context(), uploadID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rc, err := h.service.Open(r.Context(), detail.Artifact)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", detail.Artifact.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(detail.Artifact.FileSize, 10))
	w.Header().Set("Content-Disposition", `inline; filename="`+detail.Artifact.FileName+`"`)
	_, _ = io.Copy(w, rc)
}
