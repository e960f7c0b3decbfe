// Package service implements the notification dispatcher. Sending an email
// and recording a notification are independent operations: callers combine
// them and decide how much a failure of one should affect the other.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"paynroll/internal/notification/models"
	"paynroll/internal/notification/transport"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/platform/sentinel"
	"paynroll/pkg/requestcontext"
)

// defaultSendTimeout bounds one transport call, independent of any caller
// deadline, so a slow provider cannot hang a decision transition.
const defaultSendTimeout = 30 * time.Second

type RecordStore interface {
	Append(ctx context.Context, r *models.Record) error
	ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Record, error)
	MarkRead(ctx context.Context, notificationID id.NotificationID) error
}

// Service renders and dispatches admissions email and owns the
// notification record log.
type Service struct {
	transport   transport.Transport
	records     RecordStore
	logger      *slog.Logger
	sendTimeout time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithSendTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.sendTimeout = d
	}
}

// New constructs a Service around the transport chosen at startup.
func New(t transport.Transport, records RecordStore, opts ...Option) *Service {
	s := &Service{transport: t, records: records, sendTimeout: defaultSendTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send renders the admissions template around message and delivers it.
// One attempt, bounded by the send timeout; no internal retry. A transport
// rejection comes back as unavailable with the provider diagnostic attached.
func (s *Service) Send(ctx context.Context, to, subject, message, recipientName string) error {
	if to == "" {
		return dErrors.New(dErrors.CodeValidation, "recipient email is required")
	}
	if recipientName == "" {
		recipientName = "Applicant"
	}
	if subject == "" {
		subject = "Message from Admissions Team"
	}

	text, htmlBody := renderBody(recipientName, message)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	err := s.transport.Send(sendCtx, transport.Message{
		To:      to,
		Subject: subject,
		Text:    text,
		HTML:    htmlBody,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "email send failed",
				"transport", s.transport.Name(),
				"to", to,
				"request_id", requestcontext.RequestID(ctx),
				"error", err)
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send email")
	}
	return nil
}

// Record appends a notification row. Pure persistence: it neither sends
// email nor checks whether one was sent.
func (s *Service) Record(ctx context.Context, admissionID id.AdmissionID, message, ntype string) (*models.Record, error) {
	if ntype == "" {
		ntype = models.TypeInfo
	}
	r := &models.Record{
		NotificationID: id.NewNotificationID(),
		AdmissionID:    admissionID,
		Message:        message,
		Type:           ntype,
		IsRead:         false,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.records.Append(ctx, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save notification")
	}
	return r, nil
}

// ListByAdmission returns the admission's notifications, newest first.
func (s *Service) ListByAdmission(ctx context.Context, admissionID id.AdmissionID) ([]*models.Record, error) {
	out, err := s.records.ListByAdmission(ctx, admissionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch notifications")
	}
	return out, nil
}

// MarkRead flips the read flag on one notification.
func (s *Service) MarkRead(ctx context.Context, notificationID id.NotificationID) error {
	if err := s.records.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	return nil
}

// renderBody wraps message in the admissions letter template and returns
// the plain-text and HTML variants.
func renderBody(recipientName, message string) (text, htmlBody string) {
	text = fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\nAdmissions Team", recipientName, message)

	escaped := html.EscapeString(message)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	htmlBody = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Dear %s,</h2>
  <p style="color: #555; line-height: 1.6;">%s</p>
  <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
  <p style="color: #777; font-size: 14px;">Best regards,<br><strong>Admissions Team</strong></p>
</div>`, html.EscapeString(recipientName), escaped)
	return text, htmlBody
}
