package handler

import (
	"paynroll/internal/applicant/models"
	id "paynroll/pkg/domain"
)

// CreateResponse acknowledges a submitted application.
type CreateResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	AdmissionID id.AdmissionID    `json:"admission_id"`
	Applicant   *models.Applicant `json:"applicant"`
}

// TransitionResponse reports a decision plus its delivery side effects.
type TransitionResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Status    models.Status     `json:"status"`
	Notified  bool              `json:"notified"`
	Warning   string            `json:"warning,omitempty"`
	Applicant *models.Applicant `json:"applicant"`
}

// StatusResponse is the public status check payload.
type StatusResponse struct {
	Success bool          `json:"success"`
	Status  models.Status `json:"status"`
}

// ListResponse wraps an applicant listing.
type ListResponse struct {
	Count      int                 `json:"count"`
	Applicants []*models.Applicant `json:"applicants"`
}
