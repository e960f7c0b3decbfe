package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paynroll/internal/applicant/service"
	applicantstore "paynroll/internal/applicant/store/applicant"
	notifmodels "paynroll/internal/notification/models"
	id "paynroll/pkg/domain"
	"paynroll/pkg/testutil"
)

// stubNotifier satisfies the service's notifier without a transport.
type stubNotifier struct {
	sendErr error
}

func (s *stubNotifier) Send(context.Context, string, string, string, string) error {
	return s.sendErr
}

func (s *stubNotifier) Record(_ context.Context, admissionID id.AdmissionID, message, ntype string) (*notifmodels.Record, error) {
	return &notifmodels.Record{NotificationID: id.NewNotificationID(), AdmissionID: admissionID, Message: message, Type: ntype}, nil
}

func newRouter(notifier *stubNotifier) chi.Router {
	svc := service.New(applicantstore.NewMemory(), notifier)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func validPayload() map[string]string {
	return map[string]string{
		"lastname":         "Reyes",
		"firstname":        "Maria",
		"birth_date":       "2007-06-15",
		"gender":           "female",
		"mobile_number":    "09171234567",
		"email":            "maria@example.com",
		"preferred_course": "BS-Computer Science",
	}
}

func createApplicant(t *testing.T, router chi.Router) id.AdmissionID {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/applicants", validPayload()))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[CreateResponse](t, rr)
	require.NotEmpty(t, resp.AdmissionID)
	return resp.AdmissionID
}

func TestCreateApplicant(t *testing.T) {
	router := newRouter(&stubNotifier{})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/applicants", validPayload()))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	resp := testutil.UnmarshalResponse[CreateResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Equal(t, "pending", string(resp.Applicant.Status))
}

func TestCreateApplicantMissingFields(t *testing.T) {
	router := newRouter(&stubNotifier{})

	payload := validPayload()
	delete(payload, "email")
	delete(payload, "gender")

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/applicants", payload))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	errResp := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "validation_error", errResp["error"])
	assert.Equal(t, "missing required fields: gender, email", errResp["error_description"])
}

func TestCreateApplicantDuplicateEmail(t *testing.T) {
	router := newRouter(&stubNotifier{})
	createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/applicants", validPayload()))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}

func TestCreateApplicantMalformedBody(t *testing.T) {
	router := newRouter(&stubNotifier{})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/applicants", nil)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestTransitionStatus(t *testing.T) {
	router := newRouter(&stubNotifier{})
	admissionID := createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch,
		"/applicants/"+admissionID.String()+"/status",
		map[string]string{"status": "accepted", "note": "See you in June."}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[TransitionResponse](t, rr)
	assert.True(t, resp.Notified)
	assert.Empty(t, resp.Warning)
	assert.Equal(t, "accepted", string(resp.Status))
}

func TestTransitionStatusEmailFailureStillSucceeds(t *testing.T) {
	router := newRouter(&stubNotifier{sendErr: errors.New("smtp down")})
	admissionID := createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch,
		"/applicants/"+admissionID.String()+"/status",
		map[string]string{"status": "rejected"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[TransitionResponse](t, rr)
	assert.False(t, resp.Notified)
	assert.NotEmpty(t, resp.Warning)
}

func TestTransitionStatusAlreadyDecided(t *testing.T) {
	router := newRouter(&stubNotifier{})
	admissionID := createApplicant(t, router)

	path := "/applicants/" + admissionID.String() + "/status"
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, path,
		map[string]string{"status": "accepted"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, path,
		map[string]string{"status": "rejected"}))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
}

func TestTransitionStatusInvalidStatus(t *testing.T) {
	router := newRouter(&stubNotifier{})
	admissionID := createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch,
		"/applicants/"+admissionID.String()+"/status",
		map[string]string{"status": "enrolled"}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestTransitionStatusBadAdmissionID(t *testing.T) {
	router := newRouter(&stubNotifier{})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch,
		"/applicants/not-an-id/status", map[string]string{"status": "accepted"}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestGetApplicant(t *testing.T) {
	router := newRouter(&stubNotifier{})
	admissionID := createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/"+admissionID.String()))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "email", "maria@example.com")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/ADM-2026-feedfeedfeed"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestStatusByEmail(t *testing.T) {
	router := newRouter(&stubNotifier{})
	createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/status?email=maria@example.com"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	testutil.AssertJSONContains(t, rr, "status", "pending")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/status?email=nobody@example.com"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestCountsAndList(t *testing.T) {
	router := newRouter(&stubNotifier{})
	admissionID := createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch,
		"/applicants/"+admissionID.String()+"/status", map[string]string{"status": "accepted"}))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/counts"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	counts := testutil.UnmarshalResponse[service.CountsSummary](t, rr)
	assert.Equal(t, &service.CountsSummary{Total: 1, Accepted: 1}, counts)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	list := testutil.UnmarshalResponse[ListResponse](t, rr)
	assert.Equal(t, 1, list.Count)
}

func TestListByCourseShortcode(t *testing.T) {
	router := newRouter(&stubNotifier{})
	createApplicant(t, router)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/applicants/course/bscs"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	list := testutil.UnmarshalResponse[ListResponse](t, rr)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "BS-Computer Science", list.Applicants[0].PreferredCourse)
}
