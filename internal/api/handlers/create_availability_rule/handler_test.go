package create_availability_rule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

type fakeService struct {
	got  *models.CreateRuleRequest
	resp *models.RuleResponse
	err  error
}

func (f *fakeService) Create(_ context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	f.got = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/therapists/{therapistId}/availability", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/therapists/7/availability", strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 7, Role: domain.RoleTherapist}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	svc := &fakeService{resp: &models.RuleResponse{ID: 11, TherapistID: 7, DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true}}

	rec := serve(svc, `{"dayOfWeek":1,"startTime":"09:00","endTime":"17:00"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), svc.got.TherapistID)
	assert.Equal(t, "09:00", svc.got.Rule.StartTime)
	assert.Nil(t, svc.got.Rule.IsAvailable)
}

func TestHandler_OverlapReturnsConflictingRule(t *testing.T) {
	existing := &domain.AvailabilityRule{ID: 3, TherapistID: 7, DayOfWeek: 1, StartTime: "10:00", EndTime: "12:00", IsActive: true}
	conflict := &availability.ConflictError{
		Rule:           existing,
		DayOfWeek:      1,
		StartTime:      "10:00",
		EndTime:        "12:00",
		CandidateIndex: -1,
		OtherIndex:     -1,
	}

	rec := serve(&fakeService{err: conflict}, `{"dayOfWeek":1,"startTime":"09:00","endTime":"11:00"}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error   string                 `json:"error"`
		Details models.ConflictDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Details.ConflictingRule)
	assert.Equal(t, int64(3), body.Details.ConflictingRule.ID)
	assert.Equal(t, "10:00", body.Details.StartTime)
	assert.Nil(t, body.Details.RuleIndex)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{availability.ErrInvalidInput, http.StatusBadRequest},
		{availability.ErrAccessDenied, http.StatusForbidden},
		{availability.ErrTherapistNotFound, http.StatusNotFound},
		{availability.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, `{"dayOfWeek":1,"startTime":"09:00","endTime":"17:00"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_UnknownFieldRejected(t *testing.T) {
	rec := serve(&fakeService{}, `{"dayOfWeek":1,"startTime":"09:00","endTime":"17:00","color":"red"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgInvalidRequestBody, body.Error)
}
