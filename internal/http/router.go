// Package httpapi assembles the public router from the per-domain handlers.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	applicanthandler "paynroll/internal/applicant/handler"
	documenthandler "paynroll/internal/document/handler"
	notificationhandler "paynroll/internal/notification/handler"
	"paynroll/internal/platform/metrics"
	"paynroll/internal/platform/middleware"
	verificationhandler "paynroll/internal/verification/handler"
	"paynroll/pkg/platform/httputil"
)

// Handlers bundles every endpoint group mounted under /api.
type Handlers struct {
	Applicant    *applicanthandler.Handler
	Verification *verificationhandler.Handler
	Notification *notificationhandler.Handler
	Document     *documenthandler.Handler
}

// NewRouter wires middleware, health and metrics endpoints, and the API
// surface.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		h.Applicant.Register(api)
		h.Verification.Register(api)
		h.Notification.Register(api)
		h.Document.Register(api)
	})
	return r
}
