package cancel_appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByID получает запись; в транзакции строка блокируется
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason, notes string, cancelledAt time.Time) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Payment, error)
	MarkRefunded(ctx context.Context, id int64, amount decimal.Decimal, description string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события записей после фиксации транзакции
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AppointmentEvent) error
}

// Metrics бизнес-метрики отмен
type Metrics interface {
	ObserveCancellation(tier string, refunded bool, amount float64, currency string)
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
