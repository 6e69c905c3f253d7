package list_availability

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	List(ctx context.Context, therapistID int64) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
