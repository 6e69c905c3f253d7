package reschedule_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// Request модель запроса на перенос записи
type Request struct {
	Actor         domain.Actor
	AppointmentID int64
	NewStartAt    time.Time
}

// Response модель ответа с перенесённой записью и комиссией
type Response struct {
	Appointment   *domain.Appointment
	PreviousStart time.Time
	Tier          domain.PolicyTier
	HoursUntil    float64
	RescheduleFee decimal.Decimal
	Currency      string
}
