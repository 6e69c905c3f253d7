package delete_availability_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRuleID      = "некорректный ID правила"
	msgUnauthorized       = "пользователь не авторизован"
	msgForbidden          = "изменять расписание может только сам терапевт"
	msgRuleNotFound       = "правило доступности не найдено"
	msgTherapistNotFound  = "терапевт не найден"
	msgHasFutureBookings  = "нельзя удалить окно, пока есть будущие сессии"
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

// Handle DELETE /api/v1/therapists/{therapistId}/availability/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /therapists/{id}/availability/{id} - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}
	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /therapists/{id}/availability/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	err = h.service.Delete(r.Context(), &models.DeleteRuleRequest{
		Actor:       actor,
		TherapistID: therapistID,
		RuleID:      ruleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrHasFutureBookings):
			h.logger.Warn("DELETE /therapists/{id}/availability/{id} - Future bookings exist: therapist_id=%d", therapistID)
			handlers.RespondConflict(w, msgHasFutureBookings)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /therapists/{id}/availability/{id} - Access denied: therapist_id=%d, user_id=%d", therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrRuleNotFound):
			h.logger.Warn("DELETE /therapists/{id}/availability/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, availability.ErrTherapistNotFound):
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("DELETE /therapists/{id}/availability/{id} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /therapists/{id}/availability/{id} - Rule deleted: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
