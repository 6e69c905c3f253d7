package therapist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBooking/pkg/psqlbuilder"
)

const tableName = "therapist_profiles"

// Repository репозиторий профилей терапевтов (только чтение и сидирование)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает профиль терапевта по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TherapistProfile, error) {
	return r.get(ctx, "GetByID", id, false)
}

// LockByID получает профиль и блокирует строку до конца транзакции.
// Сериализует изменения расписания и записи одного терапевта.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.TherapistProfile, error) {
	return r.get(ctx, "LockByID", id, dbmetrics.IsInTransaction(ctx))
}

// Create сохраняет профиль терапевта
func (r *Repository) Create(ctx context.Context, t *domain.TherapistProfile) (*domain.TherapistProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("display_name", "hourly_rate", "currency", "is_active").
		Values(t.DisplayName, t.HourlyRate, t.Currency, t.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - scan id: %v", ErrScanRow, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

func (r *Repository) get(ctx context.Context, op string, id int64, forUpdate bool) (*domain.TherapistProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"display_name",
		"hourly_rate",
		"currency",
		"is_active",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var t domain.TherapistProfile
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.DisplayName,
		&t.HourlyRate,
		&t.Currency,
		&t.IsActive,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTherapistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan therapist: %v", ErrScanRow, op, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
