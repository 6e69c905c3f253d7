package create_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/payments"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/payments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "пользователь не авторизован"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "оплатить запись может только её клиент"
	msgPaymentExists        = "платёж по записи уже создан"
	msgInvalidState         = "запись нельзя оплатить в текущем статусе"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/payments - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateRequest{
		Actor:         actor,
		AppointmentID: appointmentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/payments - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/payments - Access denied: appointment_id=%d, user_id=%d", appointmentID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrPaymentExists):
			handlers.RespondConflict(w, msgPaymentExists)

		case errors.Is(err, payments.ErrInvalidState):
			handlers.RespondUnprocessable(w, msgInvalidState)

		case errors.Is(err, payments.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments/{id}/payments - Failed to create payment: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/payments - Payment created: payment_id=%d, appointment_id=%d", result.ID, appointmentID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
