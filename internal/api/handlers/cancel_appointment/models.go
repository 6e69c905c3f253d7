package cancel_appointment

import (
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
	cancelAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP модель отмены
type CancelAppointmentRequest struct {
	Reason          string `json:"reason,omitempty"`
	RefundRequested bool   `json:"refundRequested"`
}

// CancelAppointmentResponse HTTP ответ на отмену
type CancelAppointmentResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	RefundInfo  *RefundInfo                 `json:"refundInfo"`
	Policy      Policy                      `json:"policy"`
}

// RefundInfo расчёт возврата
type RefundInfo struct {
	Tier            string  `json:"tier"`
	HoursUntil      float64 `json:"hoursUntilAppointment"`
	Eligible        bool    `json:"eligible"`
	RefundAmount    string  `json:"refundAmount"`
	CancellationFee string  `json:"cancellationFee"`
	Currency        string  `json:"currency"`
	Refunded        bool    `json:"refunded"`
	PaymentStatus   string  `json:"paymentStatus"`
}

// Policy таблица условий возврата
type Policy struct {
	FullRefund    string `json:"fullRefund"`
	PartialRefund string `json:"partialRefund"`
	NoRefund      string `json:"noRefund"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(actor domain.Actor, appointmentID int64) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		Actor:           actor,
		AppointmentID:   appointmentID,
		Reason:          r.Reason,
		RefundRequested: r.RefundRequested,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	out := &CancelAppointmentResponse{
		Appointment: models.FromDomainAppointment(resp.Appointment),
		Policy: Policy{
			FullRefund:    resp.Policy.FullRefund,
			PartialRefund: resp.Policy.PartialRefund,
			NoRefund:      resp.Policy.NoRefund,
		},
	}

	if info := resp.RefundInfo; info != nil {
		out.RefundInfo = &RefundInfo{
			Tier:            string(info.Tier),
			HoursUntil:      info.HoursUntil,
			Eligible:        info.Eligible,
			RefundAmount:    info.RefundAmount.StringFixed(2),
			CancellationFee: info.CancellationFee.StringFixed(2),
			Currency:        info.Currency,
			Refunded:        info.Refunded,
			PaymentStatus:   string(info.PaymentStatus),
		}
	}

	return out
}
