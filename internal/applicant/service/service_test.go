package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paynroll/internal/applicant/models"
	applicantstore "paynroll/internal/applicant/store/applicant"
	notifmodels "paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	dErrors "paynroll/pkg/domain-errors"
	"paynroll/pkg/requestcontext"
)

// fakeNotifier records calls and lets tests fail Send or Record selectively.
type fakeNotifier struct {
	sendErr   error
	recordErr error

	sent     []sentMail
	recorded []recordedNote
}

type sentMail struct {
	to, subject, message, name string
}

type recordedNote struct {
	admissionID id.AdmissionID
	message     string
	ntype       string
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, message, recipientName string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, message: message, name: recipientName})
	return nil
}

func (f *fakeNotifier) Record(_ context.Context, admissionID id.AdmissionID, message, ntype string) (*notifmodels.Record, error) {
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	f.recorded = append(f.recorded, recordedNote{admissionID: admissionID, message: message, ntype: ntype})
	return &notifmodels.Record{NotificationID: id.NewNotificationID(), AdmissionID: admissionID, Message: message, Type: ntype}, nil
}

func validRequest() *models.CreateApplicationRequest {
	return &models.CreateApplicationRequest{
		Lastname:        "Reyes",
		Firstname:       "Maria",
		BirthDate:       "2007-06-15",
		Gender:          "female",
		MobileNumber:    "09171234567",
		Email:           "Maria.Reyes@Example.com",
		PreferredCourse: "BS-Computer Science",
	}
}

func testCtx() context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC))
}

func TestCreateApplication(t *testing.T) {
	store := applicantstore.NewMemory()
	svc := New(store, &fakeNotifier{})

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, "maria.reyes@example.com", a.Email, "email stored lowercase")
	assert.Contains(t, a.AdmissionID.String(), "ADM-2026-", "admission year comes from request time")

	stored, err := store.FindByID(context.Background(), a.AdmissionID)
	require.NoError(t, err)
	assert.Equal(t, a.AdmissionID, stored.AdmissionID)
}

func TestCreateApplicationReportsAllMissingFields(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	req := validRequest()
	req.Lastname = ""
	req.Email = ""
	req.PreferredCourse = ""

	_, err := svc.CreateApplication(testCtx(), req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "missing required fields: lastname, email, preferred_course", dErrors.MessageOf(err))
}

func TestCreateApplicationDuplicateEmail(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	_, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Email = "MARIA.REYES@example.com"
	_, err = svc.CreateApplication(testCtx(), req)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Equal(t, "this email is already registered", dErrors.MessageOf(err))
}

func TestTransitionStatusAccepted(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	result, err := svc.TransitionStatus(testCtx(), a.AdmissionID, "accepted", "Enrollment starts June 1.")
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, result.Applicant.Status)
	assert.True(t, result.Notified)
	assert.Empty(t, result.Warning)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "maria.reyes@example.com", notifier.sent[0].to)
	assert.Equal(t, "Maria Reyes", notifier.sent[0].name)
	assert.Contains(t, notifier.sent[0].message, "has been accepted")
	assert.Contains(t, notifier.sent[0].message, "Enrollment starts June 1.")

	require.Len(t, notifier.recorded, 1)
	assert.Equal(t, a.AdmissionID, notifier.recorded[0].admissionID)
	assert.Equal(t, notifmodels.TypeDecision, notifier.recorded[0].ntype)
}

func TestTransitionStatusInvalidStatus(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	_, err := svc.TransitionStatus(testCtx(), id.AdmissionID("ADM-2026-0123456789ab"), "enrolled", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestTransitionStatusUnknownApplicant(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	_, err := svc.TransitionStatus(testCtx(), id.AdmissionID("ADM-2026-0123456789ab"), "accepted", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestTransitionStatusTerminalIsConflict(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	_, err = svc.TransitionStatus(testCtx(), a.AdmissionID, "accepted", "")
	require.NoError(t, err)

	_, err = svc.TransitionStatus(testCtx(), a.AdmissionID, "rejected", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	// The losing transition must not have sent anything.
	assert.Len(t, notifier.sent, 1)

	stored, err := store.FindByID(context.Background(), a.AdmissionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)
}

func TestTransitionStatusOverrideAllowsRedecision(t *testing.T) {
	store := applicantstore.NewMemory()
	svc := New(store, &fakeNotifier{}, WithDecisionOverride(true))

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	_, err = svc.TransitionStatus(testCtx(), a.AdmissionID, "accepted", "")
	require.NoError(t, err)

	result, err := svc.TransitionStatus(testCtx(), a.AdmissionID, "rejected", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Applicant.Status)
}

func TestTransitionStatusEmailFailureDoesNotRollBack(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{sendErr: errors.New("smtp: connection refused")}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	result, err := svc.TransitionStatus(testCtx(), a.AdmissionID, "rejected", "")
	require.NoError(t, err, "a failed email never fails the transition")

	assert.False(t, result.Notified)
	assert.Contains(t, result.Warning, "could not be sent")
	assert.Equal(t, models.StatusRejected, result.Applicant.Status)

	stored, err := store.FindByID(context.Background(), a.AdmissionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, stored.Status, "status truth is independent of delivery")

	// The record still goes in even when the email did not go out.
	require.Len(t, notifier.recorded, 1)
}

func TestTransitionStatusRecordFailureIsWarning(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{recordErr: errors.New("insert failed")}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	result, err := svc.TransitionStatus(testCtx(), a.AdmissionID, "accepted", "")
	require.NoError(t, err)
	assert.True(t, result.Notified, "email went out")
	assert.Contains(t, result.Warning, "could not be saved")
}

func TestStatusByEmail(t *testing.T) {
	store := applicantstore.NewMemory()
	svc := New(store, &fakeNotifier{})

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)
	_, err = svc.TransitionStatus(testCtx(), a.AdmissionID, "accepted", "")
	require.NoError(t, err)

	status, err := svc.StatusByEmail(testCtx(), "  MARIA.REYES@example.com ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, status)

	_, err = svc.StatusByEmail(testCtx(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.StatusByEmail(testCtx(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCounts(t *testing.T) {
	store := applicantstore.NewMemory()
	svc := New(store, &fakeNotifier{})

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	var ids []id.AdmissionID
	for _, email := range emails {
		req := validRequest()
		req.Email = email
		a, err := svc.CreateApplication(testCtx(), req)
		require.NoError(t, err)
		ids = append(ids, a.AdmissionID)
	}

	_, err := svc.TransitionStatus(testCtx(), ids[0], "accepted", "")
	require.NoError(t, err)
	_, err = svc.TransitionStatus(testCtx(), ids[1], "rejected", "")
	require.NoError(t, err)

	counts, err := svc.Counts(testCtx())
	require.NoError(t, err)
	assert.Equal(t, &CountsSummary{Total: 3, Pending: 1, Accepted: 1, Rejected: 1}, counts)
}

func TestListByCourseAcceptsShortcode(t *testing.T) {
	store := applicantstore.NewMemory()
	svc := New(store, &fakeNotifier{})

	_, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	out, err := svc.ListByCourse(testCtx(), "bscs")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "BS-Computer Science", out[0].PreferredCourse)
}

func TestSendNoteByAdmissionID(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	result, err := svc.SendNote(testCtx(), a.AdmissionID, "", "Document reminder", "Please bring your original documents.")
	require.NoError(t, err)
	assert.Equal(t, "maria.reyes@example.com", result.Recipient)
	assert.Empty(t, result.Warning)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Maria Reyes", notifier.sent[0].name)
	require.Len(t, notifier.recorded, 1)
	assert.Equal(t, notifmodels.TypeInfo, notifier.recorded[0].ntype)
}

func TestSendNoteByEmailOnly(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := New(applicantstore.NewMemory(), notifier)

	result, err := svc.SendNote(testCtx(), "", "someone@example.com", "Hello", "A note.")
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", result.Recipient)

	// No admission ID means nothing to record against.
	assert.Empty(t, notifier.recorded)
}

func TestSendNoteUnknownAdmissionFallsBackToEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := New(applicantstore.NewMemory(), notifier)

	result, err := svc.SendNote(testCtx(), id.AdmissionID("ADM-2026-0123456789ab"), "someone@example.com", "Hello", "A note.")
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", result.Recipient)
	assert.Contains(t, result.Warning, "missing applicant record")
	assert.Empty(t, notifier.recorded)
}

func TestSendNoteUnknownAdmissionNoEmail(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	_, err := svc.SendNote(testCtx(), id.AdmissionID("ADM-2026-0123456789ab"), "", "Hello", "A note.")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestSendNoteRequiresContent(t *testing.T) {
	svc := New(applicantstore.NewMemory(), &fakeNotifier{})

	_, err := svc.SendNote(testCtx(), "", "someone@example.com", "Hello", "   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSendNoteSendFailureFails(t *testing.T) {
	notifier := &fakeNotifier{sendErr: dErrors.New(dErrors.CodeUnavailable, "failed to send email")}
	svc := New(applicantstore.NewMemory(), notifier)

	_, err := svc.SendNote(testCtx(), "", "someone@example.com", "Hello", "A note.")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestSendNoteRecordFailureIsWarning(t *testing.T) {
	store := applicantstore.NewMemory()
	notifier := &fakeNotifier{recordErr: errors.New("insert failed")}
	svc := New(store, notifier)

	a, err := svc.CreateApplication(testCtx(), validRequest())
	require.NoError(t, err)

	result, err := svc.SendNote(testCtx(), a.AdmissionID, "", "Hello", "A note.")
	require.NoError(t, err, "a failed record never fails a sent note")
	assert.Contains(t, result.Warning, "could not be saved")
}
