package availability

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), db, mock
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO availability_rules (therapist_id,day_of_week,start_time,end_time,is_active) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at, updated_at")).
		WithArgs(int64(7), 1, "09:00", "17:00", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	rule, err := repo.Create(context.Background(), &domain.AvailabilityRule{
		TherapistID: 7,
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsActive:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), rule.ID)
	assert.Equal(t, now, rule.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM availability_rules WHERE id = \\$1$").
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 5)

	assert.ErrorIs(t, err, ErrRuleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveByTherapistAndDay_LocksInsideTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM availability_rules WHERE (.+) ORDER BY start_time ASC FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(ruleColumns).
			AddRow(int64(1), int64(7), 1, "09:00:00", "12:00:00", true, time.Time{}, time.Time{}).
			AddRow(int64(2), int64(7), 1, "13:00:00", "17:00:00", true, time.Time{}, time.Time{}))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	rules, err := repo.GetActiveByTherapistAndDay(ctx, 7, 1)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Len(t, rules, 2)
	assert.Equal(t, types.TimeString("09:00"), rules[0].StartTime)
	assert.Equal(t, types.TimeString("17:00"), rules[1].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByTherapist_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM availability_rules WHERE therapist_id = \\$1 ORDER BY day_of_week ASC, start_time ASC$").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(ruleColumns))

	rules, err := repo.GetByTherapist(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("UPDATE availability_rules SET (.+) WHERE id = \\$5 RETURNING updated_at").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &domain.AvailabilityRule{
		ID: 99, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", IsActive: true,
	})

	assert.ErrorIs(t, err, ErrRuleNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	t.Run("deletes existing rule", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec("DELETE FROM availability_rules WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rule", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec("DELETE FROM availability_rules WHERE id = \\$1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrRuleNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec("DELETE FROM availability_rules").
			WillReturnError(errors.New("connection reset"))

		assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrExecQuery)
	})
}

func TestRepository_DeleteByTherapist(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("DELETE FROM availability_rules WHERE therapist_id = \\$1").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteByTherapist(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
