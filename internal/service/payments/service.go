package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/payment"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/payments/models"
)

// Service сервис платежей за сессии.
// Возврат средств сюда не входит: статус REFUNDED ставит только отмена записи.
type Service struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает PENDING платёж на сумму записи
// Доступно только клиенту запланированной записи
func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.PaymentResponse, error) {
	s.logger.Info("Create: payment for appointment id=%d by user=%d", req.AppointmentID, req.Actor.UserID)

	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}

	var created *domain.Payment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Create: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Create: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// Чужая запись неотличима от отсутствующей
		if !apt.IsAccessibleBy(req.Actor) {
			s.logger.Warn("Create: user=%d has no access to appointment id=%d", req.Actor.UserID, apt.ID)
			return ErrAppointmentNotFound
		}

		if req.Actor.Role != domain.RoleClient || req.Actor.UserID != apt.ClientID {
			s.logger.Warn("Create: user=%d is not the client of appointment id=%d", req.Actor.UserID, apt.ID)
			return ErrAccessDenied
		}

		if !apt.IsScheduled() {
			s.logger.Warn("Create: appointment id=%d is %s", apt.ID, apt.Status)
			return fmt.Errorf("%w: appointment is %s", ErrInvalidState, apt.Status)
		}

		created, err = s.paymentRepo.Create(txCtx, &domain.Payment{
			AppointmentID: apt.ID,
			Amount:        apt.Amount,
			Currency:      apt.Currency,
			Status:        domain.PaymentPending,
			Description:   fmt.Sprintf("Session #%d", apt.ID),
		})
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentExists) {
				s.logger.Warn("Create: appointment id=%d already has a payment", apt.ID)
				return ErrPaymentExists
			}
			s.logger.Error("Create: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("Create: payment id=%d created for appointment id=%d", created.ID, created.AppointmentID)
	return models.FromDomainPayment(created), nil
}

// UpdateStatus фиксирует результат платёжного шлюза: PENDING -> COMPLETED | FAILED
// Доступно только администратору (сервисной учётке шлюза).
// COMPLETED принимается только для запланированной записи.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.PaymentResponse, error) {
	s.logger.Info("UpdateStatus: payment id=%d -> %s by user=%d", req.PaymentID, req.Status, req.Actor.UserID)

	if req.PaymentID <= 0 {
		return nil, fmt.Errorf("%w: payment_id must be positive", ErrInvalidInput)
	}
	next := domain.PaymentStatus(req.Status)
	if next != domain.PaymentCompleted && next != domain.PaymentFailed {
		s.logger.Warn("UpdateStatus: unsupported status %q", req.Status)
		return nil, fmt.Errorf("%w: status must be completed or failed", ErrInvalidInput)
	}
	if !req.Actor.IsAdmin() {
		s.logger.Warn("UpdateStatus: user=%d is not allowed to settle payments", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	// 1. Запись платежа вне транзакции: appointment_id не меняется
	current, err := s.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Payment

	// 2. Блокировки в том же порядке, что и при отмене: запись -> платёж
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.appointmentRepo.GetByID(txCtx, current.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d of payment id=%d not found", current.AppointmentID, current.ID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		p, err := s.getPayment(txCtx, req.PaymentID)
		if err != nil {
			return err
		}

		if !p.CanSettleTo(next) {
			s.logger.Warn("UpdateStatus: payment id=%d is %s", p.ID, p.Status)
			return fmt.Errorf("%w: payment is %s", ErrInvalidState, p.Status)
		}

		// COMPLETED только для запланированной записи
		if next == domain.PaymentCompleted && !apt.IsScheduled() {
			s.logger.Warn("UpdateStatus: appointment id=%d of payment id=%d is %s", apt.ID, p.ID, apt.Status)
			return fmt.Errorf("%w: appointment is %s", ErrInvalidState, apt.Status)
		}

		if err := s.paymentRepo.UpdateStatus(txCtx, p.ID, next); err != nil {
			s.logger.Error("UpdateStatus: repository error: %v", err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		p.Status = next
		updated = p
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("UpdateStatus: payment id=%d is now %s", updated.ID, updated.Status)
	return models.FromDomainPayment(updated), nil
}

func (s *Service) getPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("UpdateStatus: payment id=%d not found", id)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("UpdateStatus: failed to get payment: %v", err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
	}
	return p, nil
}

func (s *Service) wrapTxError(err error) error {
	for _, known := range []error{
		ErrPaymentNotFound,
		ErrAppointmentNotFound,
		ErrPaymentExists,
		ErrAccessDenied,
		ErrInvalidState,
		ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
