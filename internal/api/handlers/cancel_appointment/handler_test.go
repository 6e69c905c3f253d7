package cancel_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	cancelAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/cancel_appointment"
)

type fakeUseCase struct {
	got  *cancelAppointment.Request
	resp *cancelAppointment.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
	f.got = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *fakeUseCase, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/{appointmentId}/cancel", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 100, Role: domain.RoleClient}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func cancelledAppointment() *domain.Appointment {
	reason := "sick"
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:                 5,
		ClientID:           100,
		TherapistID:        7,
		StartAt:            at.Add(30 * time.Hour),
		DurationMinutes:    60,
		SessionType:        domain.SessionOnline,
		Status:             domain.StatusCancelled,
		Amount:             decimal.RequireFromString("3000"),
		Currency:           "RUB",
		CancellationReason: &reason,
		CancelledAt:        &at,
	}
}

func TestHandler_RefundResponse(t *testing.T) {
	uc := &fakeUseCase{resp: &cancelAppointment.Response{
		Appointment: cancelledAppointment(),
		RefundInfo: &cancelAppointment.RefundInfo{
			Tier:            domain.TierPartial,
			HoursUntil:      5,
			Eligible:        true,
			RefundAmount:    decimal.RequireFromString("1500"),
			CancellationFee: decimal.RequireFromString("1500"),
			Currency:        "RUB",
			Refunded:        true,
			PaymentStatus:   domain.PaymentRefunded,
		},
		Policy: cancelAppointment.CancellationPolicy,
	}}

	rec := serve(uc, "/appointments/5/cancel", `{"reason":"sick","refundRequested":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.got.AppointmentID)
	assert.True(t, uc.got.RefundRequested)

	var body CancelAppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.RefundInfo)
	assert.Equal(t, "1500.00", body.RefundInfo.RefundAmount)
	assert.Equal(t, "1500.00", body.RefundInfo.CancellationFee)
	assert.Equal(t, "≥24h", body.Policy.FullRefund)
	assert.Equal(t, "2-24h (50%)", body.Policy.PartialRefund)
	assert.Equal(t, "<2h", body.Policy.NoRefund)
}

func TestHandler_EmptyBodyAllowed(t *testing.T) {
	uc := &fakeUseCase{resp: &cancelAppointment.Response{
		Appointment: cancelledAppointment(),
		Policy:      cancelAppointment.CancellationPolicy,
	}}

	rec := serve(uc, "/appointments/5/cancel", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, uc.got.Reason)
	assert.False(t, uc.got.RefundRequested)
	assert.Contains(t, rec.Body.String(), `"refundInfo":null`)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{cancelAppointment.ErrAppointmentNotFound, http.StatusNotFound},
		{cancelAppointment.ErrInvalidInput, http.StatusBadRequest},
		{cancelAppointment.ErrInvalidState, http.StatusUnprocessableEntity},
		{cancelAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, "/appointments/5/cancel", `{}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
