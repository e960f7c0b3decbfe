// Package service implements the application lifecycle: submission, decision
// transitions, and the decision-to-notification handoff.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"paynroll/internal/applicant/metrics"
	"paynroll/internal/applicant/models"
	"paynroll/internal/audit"
	notifmodels "paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/platform/sentinel"
	"paynroll/pkg/requestcontext"
)

type ApplicantStore interface {
	Create(ctx context.Context, a *models.Applicant) error
	FindByID(ctx context.Context, admissionID id.AdmissionID) (*models.Applicant, error)
	FindByEmail(ctx context.Context, email string) (*models.Applicant, error)
	UpdateStatusReturning(ctx context.Context, admissionID id.AdmissionID, status models.Status, now time.Time) (*models.Applicant, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.Status) (int, error)
	List(ctx context.Context, order string) ([]*models.Applicant, error)
	ListByCourse(ctx context.Context, course string) ([]*models.Applicant, error)
}

// Notifier is the slice of the notification dispatcher this service uses.
// Send delivers email; Record persists the notification row. The two stay
// separate so decision transitions can degrade gracefully.
type Notifier interface {
	Send(ctx context.Context, to, subject, message, recipientName string) error
	Record(ctx context.Context, admissionID id.AdmissionID, message, ntype string) (*notifmodels.Record, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// DecisionResult reports a transition plus its delivery side effects.
// Status truth and notification truth are independent: a committed decision
// with a failed email still succeeds, with Notified false and a warning.
type DecisionResult struct {
	Applicant *models.Applicant
	Notified  bool
	Warning   string
}

// NoteResult reports an ad-hoc note send.
type NoteResult struct {
	Recipient string
	Warning   string
}

// CountsSummary aggregates the dashboard counters.
type CountsSummary struct {
	Total    int `json:"total_admissions"`
	Pending  int `json:"pending_count"`
	Accepted int `json:"accepted_count"`
	Rejected int `json:"rejected_count"`
}

// Service orchestrates the application lifecycle.
type Service struct {
	store          ApplicantStore
	notifier       Notifier
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	allowOverride  bool
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDecisionOverride permits re-deciding terminal records.
func WithDecisionOverride(allow bool) Option {
	return func(s *Service) {
		s.allowOverride = allow
	}
}

// New constructs a Service.
func New(store ApplicantStore, notifier Notifier, opts ...Option) *Service {
	s := &Service{store: store, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateApplication validates a submission and stores a pending record
// under a freshly generated admission ID.
func (s *Service) CreateApplication(ctx context.Context, req *models.CreateApplicationRequest) (*models.Applicant, error) {
	now := requestcontext.Now(ctx)

	admissionID, err := id.NewAdmissionID(now)
	if err != nil {
		return nil, err
	}

	a, err := models.NewApplicant(admissionID, req, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "this email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.emitAudit(ctx, a.AdmissionID, audit.ActionApplicationCreated, a.PreferredCourse)
	if s.metrics != nil {
		s.metrics.IncrementApplicationsCreated()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "application created",
			"admission_id", a.AdmissionID,
			"request_id", requestcontext.RequestID(ctx))
	}
	return a, nil
}

// TransitionStatus applies a decision and then delivers the decision email
// and notification record on a best-effort basis. The status write is the
// only step that can fail the operation; everything after it degrades to
// warnings on the result.
func (s *Service) TransitionStatus(ctx context.Context, admissionID id.AdmissionID, rawStatus, note string) (*DecisionResult, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.store.FindByID(ctx, admissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}

	if !current.Status.CanTransitionTo(status, s.allowOverride) {
		return nil, dErrors.New(dErrors.CodeConflict, "application has already been decided")
	}

	updated, err := s.store.UpdateStatusReturning(ctx, admissionID, status, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update applicant status")
	}

	if s.metrics != nil {
		s.metrics.IncrementDecisionsRecorded(string(status))
	}
	action := audit.ActionStatusAccepted
	if status == models.StatusRejected {
		action = audit.ActionStatusRejected
	}
	s.emitAudit(ctx, admissionID, action, note)

	// Status is committed; from here on nothing rolls back.
	message := decisionMessage(status, note)
	result := &DecisionResult{Applicant: updated, Notified: true}

	if err := s.notifier.Send(ctx, updated.Email, "Admission Application Update", message, updated.FullName()); err != nil {
		result.Notified = false
		result.Warning = "Status updated, but the notification email could not be sent."
		if s.metrics != nil {
			s.metrics.IncrementDecisionEmailFailed()
		}
		if s.logger != nil {
			s.logger.WarnContext(ctx, "decision email failed",
				"admission_id", admissionID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err)
		}
	}

	if _, err := s.notifier.Record(ctx, admissionID, message, notifmodels.TypeDecision); err != nil {
		appendWarning(result, "Notification record could not be saved.")
		if s.logger != nil {
			s.logger.WarnContext(ctx, "decision notification record failed",
				"admission_id", admissionID,
				"request_id", requestcontext.RequestID(ctx),
				"error", err)
		}
	}

	return result, nil
}

// Get returns one application by admission ID.
func (s *Service) Get(ctx context.Context, admissionID id.AdmissionID) (*models.Applicant, error) {
	a, err := s.store.FindByID(ctx, admissionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
	}
	return a, nil
}

// StatusByEmail is the public status check used by applicants themselves.
func (s *Service) StatusByEmail(ctx context.Context, email string) (models.Status, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email is required")
	}
	a, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "applicant not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up applicant")
	}
	return a.Status, nil
}

// Counts returns the dashboard counters in one call.
func (s *Service) Counts(ctx context.Context) (*CountsSummary, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count applicants")
	}
	summary := &CountsSummary{Total: total}

	for status, dst := range map[models.Status]*int{
		models.StatusPending:  &summary.Pending,
		models.StatusAccepted: &summary.Accepted,
		models.StatusRejected: &summary.Rejected,
	} {
		n, err := s.store.CountByStatus(ctx, status)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count applicants by status")
		}
		*dst = n
	}
	return summary, nil
}

// List returns all applications, oldest first for order "asc", newest
// first otherwise.
func (s *Service) List(ctx context.Context, order string) ([]*models.Applicant, error) {
	out, err := s.store.List(ctx, order)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants")
	}
	return out, nil
}

// ListByCourse filters by preferred course, accepting dashboard shortcodes.
func (s *Service) ListByCourse(ctx context.Context, course string) ([]*models.Applicant, error) {
	out, err := s.store.ListByCourse(ctx, models.CourseFromShortcode(course))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants by course")
	}
	return out, nil
}

// SendNote delivers an ad-hoc note from the admissions office. The
// recipient is resolved from the admission ID when given, otherwise the
// explicit email is used. A failed send fails the call; a failed record
// after a successful send degrades to a warning.
func (s *Service) SendNote(ctx context.Context, admissionID id.AdmissionID, email, subject, note string) (*NoteResult, error) {
	if strings.TrimSpace(note) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "note content is required")
	}

	recipientEmail := strings.TrimSpace(email)
	recipientName := "Applicant"
	applicantKnown := false

	if admissionID != "" {
		a, err := s.store.FindByID(ctx, admissionID)
		switch {
		case err == nil:
			recipientEmail = a.Email
			recipientName = a.FullName()
			applicantKnown = true
		case errors.Is(err, sentinel.ErrNotFound):
			if recipientEmail == "" {
				return nil, dErrors.New(dErrors.CodeNotFound, "applicant not found")
			}
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load applicant")
		}
	}

	if recipientEmail == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient email is required")
	}

	if err := s.notifier.Send(ctx, recipientEmail, subject, note, recipientName); err != nil {
		return nil, err
	}

	result := &NoteResult{Recipient: recipientEmail}
	if admissionID != "" {
		if !applicantKnown {
			result.Warning = "Notification not saved due to missing applicant record."
		} else if _, err := s.notifier.Record(ctx, admissionID, note, notifmodels.TypeInfo); err != nil {
			result.Warning = "Email sent, but the notification could not be saved."
			if s.logger != nil {
				s.logger.WarnContext(ctx, "note record failed",
					"admission_id", admissionID,
					"request_id", requestcontext.RequestID(ctx),
					"error", err)
			}
		}
		s.emitAudit(ctx, admissionID, audit.ActionNoteSent, subject)
	}
	return result, nil
}

func (s *Service) emitAudit(ctx context.Context, admissionID id.AdmissionID, action, detail string) {
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp:   requestcontext.Now(ctx),
		AdmissionID: admissionID,
		Action:      action,
		Detail:      detail,
	})
}

func appendWarning(result *DecisionResult, warning string) {
	if result.Warning == "" {
		result.Warning = warning
		return
	}
	result.Warning = result.Warning + " " + warning
}

func decisionMessage(status models.Status, note string) string {
	var message string
	switch status {
	case models.StatusAccepted:
		message = "Congratulations! Your application has been accepted. Our admissions office will contact you with your enrollment schedule."
	case models.StatusRejected:
		message = "We regret to inform you that your application was not successful this time. Thank you for your interest in our programs."
	default:
		message = fmt.Sprintf("Your application status is now %s.", status)
	}
	if note = strings.TrimSpace(note); note != "" {
		message += "\n\n" + note
	}
	return message
}
