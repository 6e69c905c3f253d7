package list_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgTherapistNotFound  = "терапевт не найден"
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

// Handle GET /api/v1/therapists/{therapistId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := strconv.ParseInt(mux.Vars(r)["therapistId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/availability - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	result, err := h.service.List(r.Context(), therapistID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrTherapistNotFound):
			h.logger.Warn("GET /therapists/{id}/availability - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidTherapistID)

		default:
			h.logger.Error("GET /therapists/{id}/availability - Failed to list rules: therapist_id=%d, error=%v", therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/availability - Rules retrieved: therapist_id=%d, count=%d", therapistID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
