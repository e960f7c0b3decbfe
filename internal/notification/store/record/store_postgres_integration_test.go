//go:build integration

package record_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"paynroll/internal/notification/models"
	recordstore "paynroll/internal/notification/store/record"
	id "paynroll/pkg/domain"
	"paynroll/pkg/platform/sentinel"
	"paynroll/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *recordstore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = recordstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "applicant_documents", "applicant_notifications", "applicants")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newRecord(admissionID id.AdmissionID, message string, at time.Time) *models.Record {
	return &models.Record{
		NotificationID: id.NewNotificationID(),
		AdmissionID:    admissionID,
		Message:        message,
		Type:           models.TypeDecision,
		CreatedAt:      at,
	}
}

func (s *PostgresStoreSuite) TestAppendAndListNewestFirst() {
	ctx := context.Background()
	admissionID, err := id.NewAdmissionID(time.Now())
	s.Require().NoError(err)

	base := time.Now().UTC().Truncate(time.Microsecond)
	first := s.newRecord(admissionID, "first", base)
	second := s.newRecord(admissionID, "second", base.Add(time.Minute))
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	listed, err := s.store.ListByAdmission(ctx, admissionID)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal("second", listed[0].Message)
	s.Equal("first", listed[1].Message)
	s.False(listed[0].IsRead)
	s.Equal(second.NotificationID, listed[0].NotificationID)
}

func (s *PostgresStoreSuite) TestAppendDuplicateIDConflicts() {
	ctx := context.Background()
	admissionID, err := id.NewAdmissionID(time.Now())
	s.Require().NoError(err)

	r := s.newRecord(admissionID, "once", time.Now().UTC())
	s.Require().NoError(s.store.Append(ctx, r))

	dup := s.newRecord(admissionID, "twice", time.Now().UTC())
	dup.NotificationID = r.NotificationID
	err = s.store.Append(ctx, dup)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))
}

func (s *PostgresStoreSuite) TestMarkRead() {
	ctx := context.Background()
	admissionID, err := id.NewAdmissionID(time.Now())
	s.Require().NoError(err)

	r := s.newRecord(admissionID, "read me", time.Now().UTC())
	s.Require().NoError(s.store.Append(ctx, r))

	s.Require().NoError(s.store.MarkRead(ctx, r.NotificationID))

	listed, err := s.store.ListByAdmission(ctx, admissionID)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.True(listed[0].IsRead)
}

func (s *PostgresStoreSuite) TestMarkReadUnknownID() {
	err := s.store.MarkRead(context.Background(), id.NewNotificationID())
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestListEmptyAdmission() {
	admissionID, err := id.NewAdmissionID(time.Now())
	s.Require().NoError(err)

	listed, err := s.store.ListByAdmission(context.Background(), admissionID)
	s.Require().NoError(err)
	s.Empty(listed)
}
