package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetScheduledOverlapping получает запланированные сессии, пересекающиеся с [from, to); в транзакции с FOR UPDATE
	GetScheduledOverlapping(ctx context.Context, therapistID int64, from, to time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	GetActiveByTherapistAndDay(ctx context.Context, therapistID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// TherapistRepository интерфейс репозитория профилей терапевтов
type TherapistRepository interface {
	// LockByID получает профиль и блокирует строку до конца транзакции
	LockByID(ctx context.Context, id int64) (*domain.TherapistProfile, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker распределённая блокировка расписания терапевта
type Locker interface {
	WithTherapistLock(ctx context.Context, therapistID int64, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события записей после фиксации транзакции
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
}

// Metrics бизнес-метрики записей
type Metrics interface {
	ObserveBooking(sessionType string)
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
