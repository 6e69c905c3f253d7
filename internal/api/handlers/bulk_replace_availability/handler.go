package bulk_replace_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не авторизован"
	msgForbidden          = "изменять расписание может только сам терапевт"
	msgTherapistNotFound  = "терапевт не найден"
	msgOverlap            = "окна доступности пересекаются"
	msgHasFutureBookings  = "нельзя заменить расписание, пока есть будущие сессии"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/therapists/{therapistId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	var req BulkReplaceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.BulkReplace(r.Context(), req.ToServiceRequest(actor, therapistID))
	if err != nil {
		var conflict *availability.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /therapists/{id}/availability - Overlap: therapist_id=%d, %v", therapistID, err)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgOverlap, conflict.Details())

		case errors.Is(err, availability.ErrHasFutureBookings):
			h.logger.Warn("PUT /therapists/{id}/availability - Future bookings exist: therapist_id=%d", therapistID)
			handlers.RespondConflict(w, msgHasFutureBookings)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /therapists/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /therapists/{id}/availability - Access denied: therapist_id=%d, user_id=%d", therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrTherapistNotFound):
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("PUT /therapists/{id}/availability - Failed to replace rules: therapist_id=%d, error=%v", therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /therapists/{id}/availability - Rules saved: therapist_id=%d, count=%d, replace_all=%t",
		therapistID, len(result.Rules), req.ReplaceAll)
	handlers.RespondJSON(w, http.StatusOK, result)
}
