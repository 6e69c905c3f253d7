package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgUnauthorized        = "пользователь не авторизован"
	msgForbidden           = "записаться на сессию может только клиент"
	msgTherapistNotFound   = "терапевт не найден"
	msgTherapistInactive   = "терапевт сейчас не принимает записи"
	msgStartInPast         = "время начала уже прошло"
	msgOutsideAvailability = "выбранное время вне расписания терапевта"
	msgSlotNotAvailable    = "выбранное время уже занято"
	msgTherapistBusy       = "расписание терапевта обновляется, повторите запрос"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createAppointment.ErrAccessDenied):
			h.logger.Warn("POST /appointments - Access denied: user_id=%d, role=%s", actor.UserID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createAppointment.ErrTherapistNotFound):
			h.logger.Warn("POST /appointments - Therapist not found: therapist_id=%d", req.TherapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, createAppointment.ErrTherapistInactive):
			handlers.RespondUnprocessable(w, msgTherapistInactive)

		case errors.Is(err, createAppointment.ErrStartInPast):
			handlers.RespondUnprocessable(w, msgStartInPast)

		case errors.Is(err, createAppointment.ErrOutsideAvailability):
			h.logger.Warn("POST /appointments - Outside availability: therapist_id=%d, start=%s", req.TherapistID, req.StartAt)
			handlers.RespondUnprocessable(w, msgOutsideAvailability)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: therapist_id=%d, start=%s", req.TherapistID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrTherapistBusy):
			handlers.RespondConflict(w, msgTherapistBusy)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, client_id=%d, therapist_id=%d",
		result.Appointment.ID, actor.UserID, req.TherapistID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
