package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	rescheduleAppointment "github.com/m04kA/SMC-TherapyBooking/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgUnauthorized         = "пользователь не авторизован"
	msgNotFound             = "запись не найдена"
	msgCannotReschedule     = "запись не может быть перенесена"
	msgTooLate              = "перенос возможен не позднее чем за 2 часа до начала"
	msgStartInPast          = "новое время начала уже прошло"
	msgOutsideAvailability  = "выбранное время вне расписания терапевта"
	msgSlotNotAvailable     = "выбранное время уже занято"
	msgTherapistBusy        = "расписание терапевта обновляется, повторите запрос"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, appointmentID))
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rescheduleAppointment.ErrInvalidState):
			handlers.RespondUnprocessable(w, msgCannotReschedule)

		case errors.Is(err, rescheduleAppointment.ErrTooLateToReschedule):
			h.logger.Warn("POST /appointments/{id}/reschedule - Too late: appointment_id=%d", appointmentID)
			handlers.RespondUnprocessable(w, msgTooLate)

		case errors.Is(err, rescheduleAppointment.ErrStartInPast):
			handlers.RespondUnprocessable(w, msgStartInPast)

		case errors.Is(err, rescheduleAppointment.ErrOutsideAvailability):
			handlers.RespondUnprocessable(w, msgOutsideAvailability)

		case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot not available: appointment_id=%d, start=%s", appointmentID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, rescheduleAppointment.ErrTherapistBusy):
			handlers.RespondConflict(w, msgTherapistBusy)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment rescheduled: appointment_id=%d, fee=%s",
		appointmentID, result.RescheduleFee.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
