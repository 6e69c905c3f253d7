package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// Request модель запроса на запись к терапевту
type Request struct {
	Actor           domain.Actor
	TherapistID     int64
	StartAt         time.Time
	DurationMinutes int    // 60, 90 или 120; 0 - по умолчанию
	SessionType     string // online | in_person
	Notes           string
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
