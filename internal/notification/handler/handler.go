// Package handler wires the note and notification endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	applicantservice "paynroll/internal/applicant/service"
	"paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/httputil"
	"paynroll/pkg/requestcontext"
)

// NoteSender delivers admissions office notes.
type NoteSender interface {
	SendNote(ctx context.Context, admissionID id.AdmissionID, email, subject, note string) (*applicantservice.NoteResult, error)
}

// NotificationService reads and updates the notification log.
type NotificationService interface {
	ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Record, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) error
}

// Handler wires note endpoints to the lifecycle and notification services.
type Handler struct {
	notes         NoteSender
	notifications NotificationService
	logger        *slog.Logger
}

func New(notes NoteSender, notifications NotificationService, logger *slog.Logger) *Handler {
	return &Handler{notes: notes, notifications: notifications, logger: logger}
}

// Register mounts note and notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/email/notes", h.HandleSendNote)
	r.Get("/notifications/{admission_id}", h.HandleList)
	r.Patch("/notifications/{notification_id}/read", h.HandleMarkRead)
}

type sendNoteRequest struct {
	AdmissionID string `json:"admission_id"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Note        string `json:"note"`
}

type sendNoteResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
	Warning   string `json:"warning,omitempty"`
}

type listResponse struct {
	Count         int              `json:"count"`
	Notifications []*models.Record `json:"notifications"`
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleSendNote handles POST /email/notes requests. The recipient comes
// from the admission ID when given, otherwise from the explicit email.
func (h *Handler) HandleSendNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sendNoteRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	var admissionID id.AdmissionID
	if req.AdmissionID != "" {
		parsed, err := id.ParseAdmissionID(req.AdmissionID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		admissionID = parsed
	}

	result, err := h.notes.SendNote(ctx, admissionID, req.Email, req.Subject, req.Note)
	if err != nil {
		h.logger.ErrorContext(ctx, "note send failed",
			"request_id", requestcontext.RequestID(ctx),
			"admission_id", admissionID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sendNoteResponse{
		Success:   true,
		Message:   "Note sent.",
		Recipient: result.Recipient,
		Warning:   result.Warning,
	})
}

// HandleList handles GET /notifications/{admission_id} requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	admissionID, err := id.ParseAdmissionID(chi.URLParam(r, "admission_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.notifications.ListByAdmission(r.Context(), admissionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Count: len(records), Notifications: records})
}

// HandleMarkRead handles PATCH /notifications/{notification_id}/read requests.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "notification_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ackResponse{Success: true, Message: "Notification marked as read."})
}
