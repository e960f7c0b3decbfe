// Package service implements pre-registration email verification: issuing
// one-time codes and checking them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	applicantmodels "paynroll/internal/applicant/models"
	"paynroll/internal/verification/models"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/platform/sentinel"
	"paynroll/pkg/requestcontext"
)

// invalidCodeMessage is the single failure message for every Verify miss.
// Wrong code, expired code, consumed code, and unknown email are
// indistinguishable to the caller so the endpoint cannot be used as an
// oracle.
const invalidCodeMessage = "Invalid or expired verification code."

type ChallengeStore interface {
	Put(ctx context.Context, c *models.Challenge) error
	Get(ctx context.Context, email string) (*models.Challenge, error)
	Delete(ctx context.Context, email string) error
}

// ApplicantFinder is the slice of the applicant store used to refuse codes
// for already-registered emails.
type ApplicantFinder interface {
	FindByEmail(ctx context.Context, email string) (*applicantmodels.Applicant, error)
}

// Sender delivers the code email.
type Sender interface {
	Send(ctx context.Context, to, subject, message, recipientName string) error
}

// Service issues and verifies one-time email codes.
type Service struct {
	challenges ChallengeStore
	applicants ApplicantFinder
	sender     Sender
	logger     *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(challenges ChallengeStore, applicants ApplicantFinder, sender Sender, opts ...Option) *Service {
	s := &Service{challenges: challenges, applicants: applicants, sender: sender}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestCode issues a fresh challenge for email and mails the code.
// An email that already has an application is refused. Reissuing replaces
// any outstanding challenge, so only the newest code verifies.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}

	if _, err := s.applicants.FindByEmail(ctx, email); err == nil {
		return dErrors.New(dErrors.CodeConflict, "this email is already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check registration")
	}

	code, err := models.GenerateCode()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate verification code")
	}

	challenge, err := models.NewChallenge(email, code, requestcontext.Now(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to prepare verification code")
	}
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store verification code")
	}

	message := fmt.Sprintf("Your verification code is: %s\n\nThis code will expire in 10 minutes.", code)
	if err := s.sender.Send(ctx, email, "Your Verification Code", message, ""); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "verification code issued",
			"email", email,
			"request_id", requestcontext.RequestID(ctx))
	}
	return nil
}

// Verify checks code against the outstanding challenge for email and
// consumes it on success. Single use: a verified code never verifies again.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || code == "" {
		return dErrors.New(dErrors.CodeValidation, "email and code are required")
	}

	challenge, err := s.challenges.Get(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, invalidCodeMessage)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up verification code")
	}

	if challenge.Expired(requestcontext.Now(ctx)) {
		_ = s.challenges.Delete(ctx, email)
		return dErrors.New(dErrors.CodeValidation, invalidCodeMessage)
	}
	if !challenge.Matches(code) {
		return dErrors.New(dErrors.CodeValidation, invalidCodeMessage)
	}

	if err := s.challenges.Delete(ctx, email); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume verification code")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "email verified",
			"email", email,
			"request_id", requestcontext.RequestID(ctx))
	}
	return nil
}
