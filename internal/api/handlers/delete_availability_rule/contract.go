package delete_availability_rule

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	Delete(ctx context.Context, req *models.DeleteRuleRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
