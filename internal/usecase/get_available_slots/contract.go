package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	// GetActiveByTherapistAndDay получает активные окна терапевта на день недели, по возрастанию начала
	GetActiveByTherapistAndDay(ctx context.Context, therapistID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetScheduledOverlapping получает запланированные сессии, пересекающиеся с [from, to)
	GetScheduledOverlapping(ctx context.Context, therapistID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// TherapistRepository интерфейс репозитория профилей терапевтов
type TherapistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TherapistProfile, error)
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
