package update_availability_rule

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
	msgInvalidRuleID      = "некорректный ID правила"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не авторизован"
	msgForbidden          = "изменять расписание может только сам терапевт"
	msgRuleNotFound       = "правило доступности не найдено"
	msgTherapistNotFound  = "терапевт не найден"
	msgOverlap            = "окно пересекается с существующим окном доступности"
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

// Handle PUT /api/v1/therapists/{therapistId}/availability/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	therapistID, err := strconv.ParseInt(vars["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability/{id} - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}
	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(actor, therapistID, ruleID))
	if err != nil {
		var conflict *availability.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /therapists/{id}/availability/{id} - Overlap: rule_id=%d, %v", ruleID, err)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgOverlap, conflict.Details())

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /therapists/{id}/availability/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /therapists/{id}/availability/{id} - Access denied: therapist_id=%d, user_id=%d", therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrRuleNotFound):
			h.logger.Warn("PUT /therapists/{id}/availability/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, availability.ErrTherapistNotFound):
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("PUT /therapists/{id}/availability/{id} - Failed to update rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /therapists/{id}/availability/{id} - Rule updated: rule_id=%d", ruleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
