package appointment

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), db, mock
}

func appointmentRow(id int64, startAt time.Time, status domain.AppointmentStatus) []driver.Value {
	return []driver.Value{
		id, int64(100), int64(7), startAt, 60, "online", string(status),
		"1500.00", "RUB", "", nil, nil, startAt, startAt,
	}
}

func TestRepository_Create(t *testing.T) {
	startAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	newAppointment := func() *domain.Appointment {
		return &domain.Appointment{
			ClientID:        100,
			TherapistID:     7,
			StartAt:         startAt,
			DurationMinutes: 60,
			SessionType:     domain.SessionOnline,
			Status:          domain.StatusScheduled,
			Amount:          decimal.RequireFromString("1500"),
			Currency:        "RUB",
		}
	}

	t.Run("returns generated id", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), startAt, startAt))

		apt, err := repo.Create(context.Background(), newAppointment())

		require.NoError(t, err)
		assert.Equal(t, int64(42), apt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation means slot taken", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(context.Background(), newAppointment())

		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}

func TestRepository_GetByID(t *testing.T) {
	startAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("scans nullable cancellation fields", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		row := appointmentRow(1, startAt, domain.StatusCancelled)
		row[10] = "client request"
		row[11] = startAt.Add(-time.Hour)

		mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id = \\$1$").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(appointmentColumns).AddRow(row...))

		apt, err := repo.GetByID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, apt.Status)
		assert.True(t, decimal.RequireFromString("1500").Equal(apt.Amount))
		require.NotNil(t, apt.CancellationReason)
		assert.Equal(t, "client request", *apt.CancellationReason)
		require.NotNil(t, apt.CancelledAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 1)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("locks row inside transaction", func(t *testing.T) {
		repo, db, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id = \\$1 FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(appointmentColumns).AddRow(appointmentRow(1, startAt, domain.StatusScheduled)...))
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

		_, err = repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetScheduledOverlapping(t *testing.T) {
	repo, _, mock := newRepo(t)
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("start_at < $3 AND start_at + duration_minutes * INTERVAL '1 minute' > $4 ORDER BY start_at ASC")).
		WithArgs("scheduled", int64(7), to, from).
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(appointmentRow(1, from.Add(10*time.Hour), domain.StatusScheduled)...))

	appointments, err := repo.GetScheduledOverlapping(context.Background(), 7, from, to)

	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, 60, appointments[0].DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasFutureScheduled(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("SELECT 1 FROM appointments (.+) LIMIT 1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		has, err := repo.HasFutureScheduled(context.Background(), 7, now)
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("none", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery("SELECT 1 FROM appointments").WillReturnError(sql.ErrNoRows)

		has, err := repo.HasFutureScheduled(context.Background(), 7, now)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestRepository_List_AppliesFilters(t *testing.T) {
	repo, _, mock := newRepo(t)
	status := domain.StatusScheduled

	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE client_id = \\$1 AND status = \\$2 ORDER BY start_at DESC").
		WithArgs(int64(100), "scheduled").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	appointments, err := repo.List(context.Background(), domain.AppointmentsFilter{
		ClientID: ptr.Ptr(int64(100)),
		Status:   &status,
	})

	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel(t *testing.T) {
	cancelledAt := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("updates row", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec("UPDATE appointments SET status = \\$1, cancellation_reason = \\$2, cancelled_at = \\$3, notes = \\$4, updated_at = NOW\\(\\) WHERE id = \\$5").
			WithArgs("cancelled", "schedule conflict", cancelledAt, "note", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Cancel(context.Background(), 1, "schedule conflict", "note", cancelledAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Cancel(context.Background(), 1, "x", "", cancelledAt), ErrAppointmentNotFound)
	})
}

func TestRepository_Reschedule_UniqueViolation(t *testing.T) {
	repo, _, mock := newRepo(t)
	mock.ExpectExec("UPDATE appointments SET start_at").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Reschedule(context.Background(), 1, time.Now(), "")

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}
