package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
	rescheduleAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentRequest HTTP модель переноса
type RescheduleAppointmentRequest struct {
	StartAt time.Time `json:"startAt"` // RFC3339
}

// RescheduleAppointmentResponse HTTP ответ на перенос
type RescheduleAppointmentResponse struct {
	Appointment   *models.AppointmentResponse `json:"appointment"`
	PreviousStart time.Time                   `json:"previousStartAt"`
	Tier          string                      `json:"tier"`
	HoursUntil    float64                     `json:"hoursUntilAppointment"`
	RescheduleFee string                      `json:"rescheduleFee"`
	Currency      string                      `json:"currency"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) *rescheduleAppointment.Request {
	return &rescheduleAppointment.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		NewStartAt:    r.StartAt,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleAppointmentResponse {
	return &RescheduleAppointmentResponse{
		Appointment:   models.FromDomainAppointment(resp.Appointment),
		PreviousStart: resp.PreviousStart,
		Tier:          string(resp.Tier),
		HoursUntil:    resp.HoursUntil,
		RescheduleFee: resp.RescheduleFee.StringFixed(2),
		Currency:      resp.Currency,
	}
}
