package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	GetByTherapist(ctx context.Context, therapistID int64) ([]*domain.AvailabilityRule, error)
	GetActiveByTherapistAndDay(ctx context.Context, therapistID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
	Update(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTherapist(ctx context.Context, therapistID int64) (int64, error)
}

// AppointmentRepository интерфейс репозитория записей (только проверка будущих сессий)
type AppointmentRepository interface {
	HasFutureScheduled(ctx context.Context, therapistID int64, now time.Time) (bool, error)
}

// TherapistRepository интерфейс репозитория профилей терапевтов
type TherapistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TherapistProfile, error)
	LockByID(ctx context.Context, id int64) (*domain.TherapistProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
