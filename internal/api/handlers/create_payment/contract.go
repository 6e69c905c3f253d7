package create_payment

import (
	"context"

	"github.com/m04kA/SMC-TherapyBooking/internal/service/payments/models"
)

type PaymentService interface {
	Create(ctx context.Context, req *models.CreateRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
