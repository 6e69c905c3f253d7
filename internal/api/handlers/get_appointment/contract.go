package get_appointment

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
)

type AppointmentService interface {
	Get(ctx context.Context, actor domain.Actor, appointmentID int64) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
