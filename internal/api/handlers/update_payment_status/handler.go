package update_payment_status

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
	msgInvalidPaymentID   = "некорректный ID платежа"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не авторизован"
	msgNotFound           = "платёж не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимый переход статуса платежа"
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

// Handle PATCH /api/v1/payments/{paymentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	paymentID, err := strconv.ParseInt(mux.Vars(r)["paymentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /payments/{id}/status - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /payments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = actor
	req.PaymentID = paymentID

	result, err := h.service.UpdateStatus(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound), errors.Is(err, payments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /payments/{id}/status - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("PATCH /payments/{id}/status - Access denied: payment_id=%d, user_id=%d", paymentID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, payments.ErrInvalidState):
			h.logger.Warn("PATCH /payments/{id}/status - Invalid transition: payment_id=%d, status=%s", paymentID, req.Status)
			handlers.RespondUnprocessable(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /payments/{id}/status - Failed to update payment: payment_id=%d, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /payments/{id}/status - Payment updated: payment_id=%d, status=%s", paymentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
