package reschedule_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetScheduledOverlapping(ctx context.Context, therapistID int64, from, to time.Time) ([]*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, startAt time.Time, notes string) error
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	GetActiveByTherapistAndDay(ctx context.Context, therapistID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// TherapistRepository интерфейс репозитория профилей терапевтов
type TherapistRepository interface {
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
