package reschedule_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

const therapistID int64 = 7

var (
	client = domain.Actor{UserID: 100, Role: domain.RoleClient}
	// 2026-10-15 12:00 - четверг; 2026-10-19 - понедельник
	fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	monday   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	fee      = decimal.RequireFromString("500")
)

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	writes       int
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetScheduledOverlapping(_ context.Context, id int64, from, to time.Time) ([]*domain.Appointment, error) {
	out := make([]*domain.Appointment, 0)
	for _, apt := range f.appointments {
		if apt.TherapistID == id && apt.IsScheduled() && apt.Overlaps(from, to) {
			copied := *apt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Reschedule(_ context.Context, id int64, startAt time.Time, notes string) error {
	f.writes++
	f.appointments[id].StartAt = startAt
	f.appointments[id].Notes = notes
	return nil
}

type fakeRuleRepo struct {
	rules []*domain.AvailabilityRule
}

func (f *fakeRuleRepo) GetActiveByTherapistAndDay(_ context.Context, id int64, day int) ([]*domain.AvailabilityRule, error) {
	out := make([]*domain.AvailabilityRule, 0)
	for _, r := range f.rules {
		if r.TherapistID == id && r.DayOfWeek == day && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTherapistRepo struct{}

func (fakeTherapistRepo) LockByID(_ context.Context, id int64) (*domain.TherapistProfile, error) {
	return &domain.TherapistProfile{ID: id, IsActive: true}, nil
}

type fakeTx struct{}

func (fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLocker struct {
	err error
}

func (f fakeLocker) WithTherapistLock(ctx context.Context, _ int64, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakePublisher struct {
	events []domain.AppointmentEvent
}

func (f *fakePublisher) Publish(_ context.Context, event domain.AppointmentEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc        *UseCase
	apts      *fakeAppointmentRepo
	publisher *fakePublisher
}

// newFixture: запись id=1 на 60 минут с началом в startAt, окна пн и чт 09:00-17:00
func newFixture(startAt time.Time, lockErr error) *fixture {
	f := &fixture{
		apts: &fakeAppointmentRepo{appointments: map[int64]*domain.Appointment{
			1: {
				ID: 1, ClientID: 100, TherapistID: therapistID,
				StartAt: startAt, DurationMinutes: 60, Status: domain.StatusScheduled,
			},
		}},
		publisher: &fakePublisher{},
	}
	rules := &fakeRuleRepo{rules: []*domain.AvailabilityRule{
		{ID: 1, TherapistID: therapistID, DayOfWeek: 1, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("17:00"), IsActive: true},
		{ID: 2, TherapistID: therapistID, DayOfWeek: 4, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("17:00"), IsActive: true},
	}}
	f.uc = NewUseCase(f.apts, rules, fakeTherapistRepo{}, fakeTx{}, fakeLocker{err: lockErr}, f.publisher, fee, "RUB", time.UTC, nopLogger{})
	f.uc.timeProvider = fixedTime{now: fixedNow}
	return f
}

func at(hour int) time.Time {
	return monday.Add(time.Duration(hour) * time.Hour)
}

func TestExecute_FeeTiers(t *testing.T) {
	tests := []struct {
		name     string
		startAt  time.Time
		wantTier domain.PolicyTier
		wantFee  string
	}{
		{name: "more than a day ahead is free", startAt: fixedNow.Add(48 * time.Hour), wantTier: domain.TierFull, wantFee: "0"},
		{name: "exactly 24h is free", startAt: fixedNow.Add(24 * time.Hour), wantTier: domain.TierFull, wantFee: "0"},
		{name: "within a day costs the fee", startAt: fixedNow.Add(3 * time.Hour), wantTier: domain.TierPartial, wantFee: "500"},
		{name: "exactly 2h costs the fee", startAt: fixedNow.Add(2 * time.Hour), wantTier: domain.TierPartial, wantFee: "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.startAt, nil)

			resp, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(10)})

			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, resp.Tier)
			assert.True(t, decimal.RequireFromString(tt.wantFee).Equal(resp.RescheduleFee))
			assert.Equal(t, at(10), f.apts.appointments[1].StartAt)
			assert.Contains(t, f.apts.appointments[1].Notes, "fee "+resp.RescheduleFee.StringFixed(2)+" RUB")
			assert.Equal(t, tt.startAt, resp.PreviousStart)
			require.Len(t, f.publisher.events, 1)
			assert.Equal(t, domain.EventAppointmentRescheduled, f.publisher.events[0].Type)
		})
	}
}

func TestExecute_TooLate(t *testing.T) {
	f := newFixture(fixedNow.Add(90*time.Minute), nil)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(10)})

	assert.ErrorIs(t, err, ErrTooLateToReschedule)
	assert.Zero(t, f.apts.writes)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_FullIntervalConflictExcludesSelf(t *testing.T) {
	f := newFixture(at(10), nil)
	f.apts.appointments[2] = &domain.Appointment{
		ID: 2, ClientID: 101, TherapistID: therapistID,
		StartAt: at(12), DurationMinutes: 60, Status: domain.StatusScheduled,
	}

	// 11:30-12:30 задевает 12:00-13:00
	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(11).Add(30 * time.Minute)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// 10:30-11:30 пересекается только с самой переносимой записью
	resp, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(10).Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, at(10).Add(30*time.Minute), resp.Appointment.StartAt)
}

func TestExecute_CancelledNeighbourDoesNotBlock(t *testing.T) {
	f := newFixture(at(10), nil)
	f.apts.appointments[2] = &domain.Appointment{
		ID: 2, TherapistID: therapistID, StartAt: at(14), DurationMinutes: 60, Status: domain.StatusCancelled,
	}

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(14)})

	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		req     Request
		wantErr error
	}{
		{
			name:    "outside availability",
			req:     Request{Actor: client, AppointmentID: 1, NewStartAt: at(16).Add(30 * time.Minute)},
			wantErr: ErrOutsideAvailability,
		},
		{
			name:    "new start in the past",
			req:     Request{Actor: client, AppointmentID: 1, NewStartAt: fixedNow.Add(-time.Hour)},
			wantErr: ErrStartInPast,
		},
		{
			name:    "foreign client sees not found",
			req:     Request{Actor: domain.Actor{UserID: 555, Role: domain.RoleClient}, AppointmentID: 1, NewStartAt: at(10)},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "missing appointment",
			req:     Request{Actor: client, AppointmentID: 9, NewStartAt: at(10)},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "same start",
			req:     Request{Actor: client, AppointmentID: 1, NewStartAt: at(11)},
			wantErr: ErrInvalidInput,
		},
		{
			name: "cancelled appointment",
			setup: func(f *fixture) {
				f.apts.appointments[1].Status = domain.StatusCancelled
			},
			req:     Request{Actor: client, AppointmentID: 1, NewStartAt: at(10)},
			wantErr: ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(at(11), nil)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.uc.Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.apts.writes)
		})
	}
}

func TestExecute_LockHeld(t *testing.T) {
	f := newFixture(at(11), lock.ErrLockNotAcquired)

	_, err := f.uc.Execute(context.Background(), &Request{Actor: client, AppointmentID: 1, NewStartAt: at(10)})

	assert.ErrorIs(t, err, ErrTherapistBusy)
}
