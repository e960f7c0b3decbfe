// Package handler wires the email verification endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paynroll/pkg/platform/httputil"
	"paynroll/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	RequestCode(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/email/verification", h.HandleRequestCode)
	r.Post("/email/verify", h.HandleVerify)
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HandleRequestCode handles POST /email/verification requests.
func (h *Handler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req requestCodeRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RequestCode(ctx, req.Email); err != nil {
		h.logger.ErrorContext(ctx, "verification code request failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: "Verification code sent to your email.",
	})
}

// HandleVerify handles POST /email/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Verify(ctx, req.Email, req.Code); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ackResponse{
		Success: true,
		Message: "Email verified successfully.",
	})
}
