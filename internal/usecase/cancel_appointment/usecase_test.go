package cancel_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/payment"
)

var (
	fixedNow  = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	client    = domain.Actor{UserID: 100, Role: domain.RoleClient}
	therapist = domain.Actor{UserID: 7, Role: domain.RoleTherapist}
	admin     = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

type store struct {
	appointments map[int64]domain.Appointment
	payments     map[int64]domain.Payment
}

func (s *store) clone() *store {
	c := &store{appointments: map[int64]domain.Appointment{}, payments: map[int64]domain.Payment{}}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

type fakeAppointmentRepo struct {
	s      *store
	writes int
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := f.s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return &apt, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id int64, reason, notes string, at time.Time) error {
	f.writes++
	apt := f.s.appointments[id]
	apt.Status = domain.StatusCancelled
	apt.CancellationReason = &reason
	apt.CancelledAt = &at
	apt.Notes = notes
	f.s.appointments[id] = apt
	return nil
}

type fakePaymentRepo struct {
	s         *store
	refundErr error
	writes    int
}

func (f *fakePaymentRepo) GetByAppointmentID(_ context.Context, appointmentID int64) (*domain.Payment, error) {
	for _, p := range f.s.payments {
		if p.AppointmentID == appointmentID {
			copied := p
			return &copied, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePaymentRepo) MarkRefunded(_ context.Context, id int64, amount decimal.Decimal, description string) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.writes++
	p := f.s.payments[id]
	p.Status = domain.PaymentRefunded
	p.RefundedAmount = &amount
	p.Description = description
	f.s.payments[id] = p
	return nil
}

// fakeTx откатывает состояние хранилища при ошибке
type fakeTx struct {
	s *store
}

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := f.s.clone()
	if err := fn(ctx); err != nil {
		f.s.appointments = snapshot.appointments
		f.s.payments = snapshot.payments
		return err
	}
	return nil
}

type fakePublisher struct {
	events []domain.AppointmentEvent
}

func (f *fakePublisher) Publish(_ context.Context, event domain.AppointmentEvent) error {
	f.events = append(f.events, event)
	return nil
}

type observation struct {
	tier     string
	refunded bool
	amount   float64
}

type fakeMetrics struct {
	observed []observation
}

func (f *fakeMetrics) ObserveCancellation(tier string, refunded bool, amount float64, _ string) {
	f.observed = append(f.observed, observation{tier: tier, refunded: refunded, amount: amount})
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *UseCase
	s         *store
	apts      *fakeAppointmentRepo
	payments  *fakePaymentRepo
	publisher *fakePublisher
	metrics   *fakeMetrics
}

// newFixture создаёт запись id=1 через hoursUntil часов и, если задан статус, платёж на 1000.00
func newFixture(hoursUntil float64, paymentStatus domain.PaymentStatus) *fixture {
	s := &store{
		appointments: map[int64]domain.Appointment{1: {
			ID: 1, ClientID: 100, TherapistID: 7,
			StartAt:         fixedNow.Add(time.Duration(hoursUntil * float64(time.Hour))),
			DurationMinutes: 60,
			Status:          domain.StatusScheduled,
			Amount:          decimal.RequireFromString("1000"),
			Currency:        "RUB",
			Notes:           "first session",
		}},
		payments: map[int64]domain.Payment{},
	}
	if paymentStatus != "" {
		s.payments[10] = domain.Payment{
			ID: 10, AppointmentID: 1, Amount: decimal.RequireFromString("1000"),
			Currency: "RUB", Status: paymentStatus, Description: "Session #1",
		}
	}

	f := &fixture{
		s:         s,
		apts:      &fakeAppointmentRepo{s: s},
		payments:  &fakePaymentRepo{s: s},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{},
	}
	f.uc = NewUseCase(f.apts, f.payments, &fakeTx{s: s}, f.publisher, f.metrics, nopLogger{})
	f.uc.timeProvider = fixedTime{now: fixedNow}
	return f
}

func TestExecute_RefundTiers(t *testing.T) {
	tests := []struct {
		name       string
		hours      float64
		wantTier   domain.PolicyTier
		eligible   bool
		wantRefund string
		wantFee    string
	}{
		{name: "48h full refund", hours: 48, wantTier: domain.TierFull, eligible: true, wantRefund: "1000", wantFee: "0"},
		{name: "exactly 24h is full", hours: 24, wantTier: domain.TierFull, eligible: true, wantRefund: "1000", wantFee: "0"},
		{name: "12h half refund", hours: 12, wantTier: domain.TierPartial, eligible: true, wantRefund: "500", wantFee: "500"},
		{name: "exactly 2h is partial", hours: 2, wantTier: domain.TierPartial, eligible: true, wantRefund: "500", wantFee: "500"},
		{name: "1h no refund", hours: 1, wantTier: domain.TierLate, eligible: false, wantRefund: "0", wantFee: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.hours, domain.PaymentCompleted)

			resp, err := f.uc.Execute(context.Background(), &Request{
				Actor: client, AppointmentID: 1, Reason: "schedule conflict", RefundRequested: true,
			})

			require.NoError(t, err)
			require.NotNil(t, resp.RefundInfo)
			info := resp.RefundInfo
			assert.Equal(t, tt.wantTier, info.Tier)
			assert.Equal(t, tt.eligible, info.Eligible)
			assert.True(t, decimal.RequireFromString(tt.wantRefund).Equal(info.RefundAmount), info.RefundAmount.String())
			assert.True(t, decimal.RequireFromString(tt.wantFee).Equal(info.CancellationFee), info.CancellationFee.String())
			assert.True(t, info.RefundAmount.Add(info.CancellationFee).Equal(decimal.RequireFromString("1000")))

			payment := f.s.payments[10]
			if tt.eligible {
				assert.Equal(t, domain.PaymentRefunded, payment.Status)
				require.NotNil(t, payment.RefundedAmount)
				assert.True(t, info.RefundAmount.Equal(*payment.RefundedAmount))
				assert.Contains(t, payment.Description, "cancellation fee")
			} else {
				assert.Equal(t, domain.PaymentCompleted, payment.Status)
				assert.Nil(t, payment.RefundedAmount)
			}
			assert.Equal(t, domain.StatusCancelled, f.s.appointments[1].Status)
		})
	}
}

func TestExecute_EligibleWithoutRequestLeavesPayment(t *testing.T) {
	f := newFixture(48, domain.PaymentCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1})

	require.NoError(t, err)
	assert.True(t, resp.RefundInfo.Eligible)
	assert.False(t, resp.RefundInfo.Refunded)
	assert.Equal(t, domain.PaymentCompleted, f.s.payments[10].Status)
	assert.Zero(t, f.payments.writes)
	assert.Equal(t, domain.StatusCancelled, f.s.appointments[1].Status)
}

func TestExecute_PendingPaymentNotEvaluated(t *testing.T) {
	f := newFixture(48, domain.PaymentPending)

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, RefundRequested: true})

	require.NoError(t, err)
	assert.Nil(t, resp.RefundInfo)
	assert.Equal(t, domain.PaymentPending, f.s.payments[10].Status)
}

func TestExecute_NoPayment(t *testing.T) {
	f := newFixture(48, "")

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: therapist, AppointmentID: 1})

	require.NoError(t, err)
	assert.Nil(t, resp.RefundInfo)
	assert.Equal(t, CancellationPolicy, resp.Policy)
	require.Len(t, f.metrics.observed, 1)
	assert.Equal(t, "full", f.metrics.observed[0].tier)
}

func TestExecute_NotesAndDefaultReason(t *testing.T) {
	f := newFixture(48, "")

	resp, err := f.uc.Execute(context.Background(), &Request{Actor: admin, AppointmentID: 1, Reason: "   "})

	require.NoError(t, err)
	stored := f.s.appointments[1]
	require.NotNil(t, stored.CancellationReason)
	assert.Equal(t, "unspecified", *stored.CancellationReason)
	assert.Equal(t, "first session\n[2026-10-15T12:00:00Z] Cancelled by admin #1: unspecified", stored.Notes)
	assert.Equal(t, stored.Notes, resp.Appointment.Notes)
	require.NotNil(t, stored.CancelledAt)
	assert.Equal(t, fixedNow, *stored.CancelledAt)
}

func TestExecute_InvalidStateWritesNothing(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(48, domain.PaymentCompleted)
			apt := f.s.appointments[1]
			apt.Status = status
			f.s.appointments[1] = apt

			_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, RefundRequested: true})

			assert.ErrorIs(t, err, ErrInvalidState)
			assert.Zero(t, f.apts.writes)
			assert.Zero(t, f.payments.writes)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestExecute_AccessRules(t *testing.T) {
	f := newFixture(48, "")

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 2})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ForeignAppointmentLooksMissing(t *testing.T) {
	f := newFixture(48, domain.PaymentCompleted)
	stranger := domain.Actor{UserID: 555, Role: domain.RoleClient}

	_, foreignErr := f.uc.Execute(context.Background(), &Request{Actor: stranger, AppointmentID: 1, RefundRequested: true})
	_, missingErr := f.uc.Execute(context.Background(), &Request{Actor: stranger, AppointmentID: 999, RefundRequested: true})

	assert.ErrorIs(t, foreignErr, ErrAppointmentNotFound)
	assert.ErrorIs(t, missingErr, ErrAppointmentNotFound)
	assert.Equal(t, missingErr.Error(), foreignErr.Error())
	assert.Equal(t, domain.StatusScheduled, f.s.appointments[1].Status)
	assert.Zero(t, f.apts.writes)
	assert.Zero(t, f.payments.writes)
}

func TestExecute_RefundFailureRollsBackCancellation(t *testing.T) {
	f := newFixture(48, domain.PaymentCompleted)
	f.payments.refundErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, RefundRequested: true})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.StatusScheduled, f.s.appointments[1].Status)
	assert.Equal(t, domain.PaymentCompleted, f.s.payments[10].Status)
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.metrics.observed)
}

func TestExecute_PublishesEvent(t *testing.T) {
	f := newFixture(12, domain.PaymentCompleted)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, RefundRequested: true})

	require.NoError(t, err)
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, domain.EventAppointmentCancelled, event.Type)
	assert.Equal(t, "partial", event.Details["tier"])
	assert.Equal(t, "500.00", event.Details["refundAmount"])
	require.Len(t, f.metrics.observed, 1)
	assert.Equal(t, observation{tier: "partial", refunded: true, amount: 500}, f.metrics.observed[0])
}
