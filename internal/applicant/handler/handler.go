// Package handler wires the application lifecycle endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paynroll/internal/applicant/models"
	"paynroll/internal/applicant/service"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/httputil"
	"paynroll/pkg/requestcontext"
)

// Service defines the interface for application lifecycle operations.
type Service interface {
	CreateApplication(ctx context.Context, req *models.CreateApplicationRequest) (*models.Applicant, error)
	TransitionStatus(ctx context.Context, admissionID id.AdmissionID, rawStatus, note string) (*service.DecisionResult, error)
	Get(ctx context.Context, admissionID id.AdmissionID) (*models.Applicant, error)
	StatusByEmail(ctx context.Context, email string) (models.Status, error)
	Counts(ctx context.Context) (*service.CountsSummary, error)
	List(ctx context.Context, order string) ([]*models.Applicant, error)
	ListByCourse(ctx context.Context, course string) ([]*models.Applicant, error)
	SendNote(ctx context.Context, admissionID id.AdmissionID, email, subject, note string) (*service.NoteResult, error)
}

// Handler wires applicant endpoints to the lifecycle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an applicant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts applicant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applicants", h.HandleCreate)
	r.Get("/applicants", h.HandleList)
	r.Get("/applicants/counts", h.HandleCounts)
	r.Get("/applicants/status", h.HandleStatusByEmail)
	r.Get("/applicants/course/{course}", h.HandleListByCourse)
	r.Get("/applicants/{admission_id}", h.HandleGet)
	r.Patch("/applicants/{admission_id}/status", h.HandleTransitionStatus)
}

// HandleCreate handles POST /applicants requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req models.CreateApplicationRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	applicant, err := h.service.CreateApplication(ctx, &req)
	if err != nil {
		h.logger.ErrorContext(ctx, "application creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application created",
		"request_id", requestID,
		"admission_id", applicant.AdmissionID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, CreateResponse{
		Success:     true,
		Message:     "Application submitted successfully.",
		AdmissionID: applicant.AdmissionID,
		Applicant:   applicant,
	})
}

// HandleTransitionStatus handles PATCH /applicants/{admission_id}/status requests.
func (h *Handler) HandleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req TransitionRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.TransitionStatus(ctx, admissionID, req.Status, req.Note)
	if err != nil {
		h.logger.ErrorContext(ctx, "status transition failed",
			"request_id", requestID,
			"admission_id", admissionID,
			"status", req.Status,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "status transitioned",
		"request_id", requestID,
		"admission_id", admissionID,
		"status", result.Applicant.Status,
		"notified", result.Notified,
	)
	httputil.WriteJSON(w, http.StatusOK, TransitionResponse{
		Success:   true,
		Message:   "Applicant status updated.",
		Status:    result.Applicant.Status,
		Notified:  result.Notified,
		Warning:   result.Warning,
		Applicant: result.Applicant,
	})
}

// HandleGet handles GET /applicants/{admission_id} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	applicant, err := h.service.Get(r.Context(), admissionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, applicant)
}

// HandleStatusByEmail handles GET /applicants/status requests. The email
// arrives as a query parameter so applicants can poll without a body.
func (h *Handler) HandleStatusByEmail(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.StatusByEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Success: true, Status: status})
}

// HandleCounts handles GET /applicants/counts requests.
func (h *Handler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Counts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, counts)
}

// HandleList handles GET /applicants requests. order=asc returns oldest
// first; anything else returns newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.service.List(r.Context(), r.URL.Query().Get("order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Count: len(applicants), Applicants: applicants})
}

// HandleListByCourse handles GET /applicants/course/{course} requests.
// Accepts either full course names or dashboard shortcodes.
func (h *Handler) HandleListByCourse(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.service.ListByCourse(r.Context(), chi.URLParam(r, "course"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Count: len(applicants), Applicants: applicants})
}
