package create_availability_rule

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
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "пользователь не авторизован"
	msgForbidden          = "изменять расписание может только сам терапевт"
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

// Handle POST /api/v1/therapists/{therapistId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /therapists/{id}/availability - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	var body models.RuleInput
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /therapists/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateRuleRequest{
		Actor:       actor,
		TherapistID: therapistID,
		Rule:        body,
	})
	if err != nil {
		var conflict *availability.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /therapists/{id}/availability - Overlap: therapist_id=%d, %v", therapistID, err)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgOverlap, conflict.Details())

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("POST /therapists/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("POST /therapists/{id}/availability - Access denied: therapist_id=%d, user_id=%d", therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrTherapistNotFound):
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("POST /therapists/{id}/availability - Failed to create rule: therapist_id=%d, error=%v", therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /therapists/{id}/availability - Rule created: rule_id=%d, therapist_id=%d", result.ID, therapistID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
