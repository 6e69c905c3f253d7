package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP модель записи на сессию
type CreateAppointmentRequest struct {
	TherapistID     int64     `json:"therapistId"`
	StartAt         time.Time `json:"startAt"` // RFC3339
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	SessionType     string    `json:"sessionType"`
	Notes           string    `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) *createAppointment.Request {
	return &createAppointment.Request{
		Actor:           actor,
		TherapistID:     r.TherapistID,
		StartAt:         r.StartAt,
		DurationMinutes: r.DurationMinutes,
		SessionType:     r.SessionType,
		Notes:           r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment)
}
