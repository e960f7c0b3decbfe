package applicant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"paynroll/internal/applicant/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
)

type ApplicantStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *ApplicantStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestApplicantStoreSuite(t *testing.T) {
	suite.Run(t, new(ApplicantStoreSuite))
}

func (s *ApplicantStoreSuite) newApplicant(email string, createdAt time.Time) *models.Applicant {
	admissionID, err := id.NewAdmissionID(createdAt)
	s.Require().NoError(err)
	return &models.Applicant{
		AdmissionID:     admissionID,
		Status:          models.StatusPending,
		Lastname:        "Reyes",
		Firstname:       "Maria",
		BirthDate:       "2007-06-15",
		Gender:          "female",
		MobileNumber:    "09171234567",
		Email:           email,
		PreferredCourse: "BS-Computer Science",
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

// TestCreationAndLookups verifies the store correctly creates and retrieves records.
func (s *ApplicantStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds applicant by ID", func() {
		a := s.newApplicant("maria@example.com", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, a))

		found, err := s.store.FindByID(s.ctx, a.AdmissionID)
		s.Require().NoError(err)
		s.Equal(a.Email, found.Email)
		s.Equal(models.StatusPending, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.AdmissionID("ADM-2026-000000000000"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("finds by email case-insensitively", func() {
		a := s.newApplicant("case@example.com", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, a))

		found, err := s.store.FindByEmail(s.ctx, "CASE@EXAMPLE.COM")
		s.Require().NoError(err)
		s.Equal(a.AdmissionID, found.AdmissionID)
	})
}

// TestEmailUniqueness verifies one record per email regardless of case.
func (s *ApplicantStoreSuite) TestEmailUniqueness() {
	s.Run("rejects duplicate email", func() {
		a1 := s.newApplicant("dup@example.com", time.Now())
		a2 := s.newApplicant("dup@example.com", time.Now())

		s.Require().NoError(s.store.Create(s.ctx, a1))
		err := s.store.Create(s.ctx, a2)
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("rejects duplicate email with different case", func() {
		a1 := s.newApplicant("mixed@example.com", time.Now())
		a2 := s.newApplicant("MIXED@example.com", time.Now())

		s.Require().NoError(s.store.Create(s.ctx, a1))
		err := s.store.Create(s.ctx, a2)
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("rejects duplicate admission ID", func() {
		a1 := s.newApplicant("first@example.com", time.Now())
		a2 := s.newApplicant("second@example.com", time.Now())
		a2.AdmissionID = a1.AdmissionID

		s.Require().NoError(s.store.Create(s.ctx, a1))
		err := s.store.Create(s.ctx, a2)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

// TestStatusUpdates verifies the atomic status write returns the updated record.
func (s *ApplicantStoreSuite) TestStatusUpdates() {
	s.Run("updates status and returns record", func() {
		a := s.newApplicant("decide@example.com", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, a))

		later := time.Now().Add(time.Hour)
		updated, err := s.store.UpdateStatusReturning(s.ctx, a.AdmissionID, models.StatusAccepted, later)
		s.Require().NoError(err)
		s.Equal(models.StatusAccepted, updated.Status)
		s.Equal(later, updated.UpdatedAt)

		found, err := s.store.FindByID(s.ctx, a.AdmissionID)
		s.Require().NoError(err)
		s.Equal(models.StatusAccepted, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.UpdateStatusReturning(s.ctx, id.AdmissionID("ADM-2026-ffffffffffff"), models.StatusRejected, time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestCountsAndListing verifies counting and ordering behavior.
func (s *ApplicantStoreSuite) TestCountsAndListing() {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	oldest := s.newApplicant("oldest@example.com", base)
	middle := s.newApplicant("middle@example.com", base.Add(time.Hour))
	newest := s.newApplicant("newest@example.com", base.Add(2*time.Hour))
	newest.PreferredCourse = "BS-Nursing"

	s.Require().NoError(s.store.Create(s.ctx, oldest))
	s.Require().NoError(s.store.Create(s.ctx, middle))
	s.Require().NoError(s.store.Create(s.ctx, newest))

	_, err := s.store.UpdateStatusReturning(s.ctx, middle.AdmissionID, models.StatusAccepted, base.Add(3*time.Hour))
	s.Require().NoError(err)

	s.Run("counts total and by status", func() {
		total, err := s.store.Count(s.ctx)
		s.Require().NoError(err)
		s.Equal(3, total)

		pending, err := s.store.CountByStatus(s.ctx, models.StatusPending)
		s.Require().NoError(err)
		s.Equal(2, pending)

		accepted, err := s.store.CountByStatus(s.ctx, models.StatusAccepted)
		s.Require().NoError(err)
		s.Equal(1, accepted)
	})

	s.Run("lists oldest first with asc", func() {
		out, err := s.store.List(s.ctx, "asc")
		s.Require().NoError(err)
		s.Require().Len(out, 3)
		s.Equal(oldest.AdmissionID, out[0].AdmissionID)
		s.Equal(newest.AdmissionID, out[2].AdmissionID)
	})

	s.Run("lists newest first by default", func() {
		out, err := s.store.List(s.ctx, "")
		s.Require().NoError(err)
		s.Require().Len(out, 3)
		s.Equal(newest.AdmissionID, out[0].AdmissionID)
	})

	s.Run("filters by preferred course", func() {
		out, err := s.store.ListByCourse(s.ctx, "BS-Nursing")
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal(newest.AdmissionID, out[0].AdmissionID)
	})
}

// TestCopySemantics verifies callers cannot mutate stored state through
// returned pointers.
func (s *ApplicantStoreSuite) TestCopySemantics() {
	a := s.newApplicant("copy@example.com", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, a))

	found, err := s.store.FindByID(s.ctx, a.AdmissionID)
	s.Require().NoError(err)
	found.Status = models.StatusRejected

	again, err := s.store.FindByID(s.ctx, a.AdmissionID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, again.Status)
}
