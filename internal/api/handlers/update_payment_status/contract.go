package update_payment_status

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/service/payments/models"
)

type PaymentService interface {
	UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
