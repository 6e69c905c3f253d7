package bulk_replace_availability

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	BulkReplace(ctx context.Context, req *models.BulkReplaceRequest) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
