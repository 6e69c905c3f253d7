package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/payment"
)

// UseCase use case отмены записи с применением политики возврата
type UseCase struct {
	appointmentRepo AppointmentRepository
	paymentRepo     PaymentRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	paymentRepo PaymentRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет отмену.
// Статус записи и возврат платежа меняются в одной транзакции: либо оба, либо ничего.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: appointment=%d by user=%d, refundRequested=%t",
		req.AppointmentID, req.Actor.UserID, req.RefundRequested)

	// 1. Валидация входных данных
	reason, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Фиксируем момент оценки политики
	now := uc.timeProvider.Now()

	var (
		result     *domain.Appointment
		refundInfo *RefundInfo
	)

	// 3. Все изменения в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем запись с блокировкой строки
		apt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CancelAppointment: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 3.2. Проверяем права: чужая запись неотличима от отсутствующей
		if !apt.IsAccessibleBy(req.Actor) {
			uc.logger.Warn("CancelAppointment: user=%d has no access to appointment id=%d", req.Actor.UserID, apt.ID)
			return ErrAppointmentNotFound
		}

		// 3.3. Отменить можно только запланированную сессию
		if !apt.CanTransitionTo(domain.StatusCancelled) {
			uc.logger.Warn("CancelAppointment: appointment id=%d is %s", apt.ID, apt.Status)
			return fmt.Errorf("%w: appointment is %s", ErrInvalidState, apt.Status)
		}

		// 3.4. Политика считается только для оплаченного платежа
		payment, err := uc.paymentRepo.GetByAppointmentID(txCtx, apt.ID)
		if err != nil && !errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Error("CancelAppointment: failed to get payment: %v", err)
			return fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
		}
		if err == nil && payment.IsCompleted() {
			terms := domain.EvaluateCancellation(payment.Amount, apt.StartAt, now)
			refundInfo = &RefundInfo{
				Tier:            terms.Tier,
				HoursUntil:      terms.HoursUntil,
				Eligible:        terms.RefundEligible,
				RefundAmount:    terms.RefundAmount,
				CancellationFee: terms.CancellationFee,
				Currency:        payment.Currency,
				PaymentStatus:   payment.Status,
			}
		}

		// 3.5. Отменяем запись, дописав причину в заметки
		notes := appendCancellationRecord(apt.Notes, now, req.Actor, reason)
		if err := uc.appointmentRepo.Cancel(txCtx, apt.ID, reason, notes, now); err != nil {
			uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", apt.ID, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		// 3.6. Возврат только по явному запросу и при наличии права на него
		if refundInfo != nil && refundInfo.Eligible && req.RefundRequested {
			description := refundDescription(payment.Description, refundInfo)
			if err := uc.paymentRepo.MarkRefunded(txCtx, payment.ID, refundInfo.RefundAmount, description); err != nil {
				uc.logger.Error("CancelAppointment: failed to refund payment id=%d: %v", payment.ID, err)
				return fmt.Errorf("%w: failed to refund payment: %v", ErrInternal, err)
			}
			refundInfo.Refunded = true
			refundInfo.PaymentStatus = domain.PaymentRefunded
		}

		apt.Status = domain.StatusCancelled
		apt.Notes = notes
		apt.CancellationReason = &reason
		apt.CancelledAt = &now
		result = apt
		return nil
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Info("CancelAppointment: appointment id=%d cancelled", result.ID)

	// 4. Метрики и событие после фиксации
	uc.observe(result, refundInfo, now)

	event := domain.NewAppointmentEvent(domain.EventAppointmentCancelled, result, req.Actor.UserID, now)
	event.Details["reason"] = reason
	if refundInfo != nil {
		event.Details["tier"] = string(refundInfo.Tier)
		event.Details["refunded"] = fmt.Sprintf("%t", refundInfo.Refunded)
		event.Details["refundAmount"] = refundInfo.RefundAmount.StringFixed(2)
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CancelAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return &Response{
		Appointment: result,
		RefundInfo:  refundInfo,
		Policy:      CancellationPolicy,
	}, nil
}

func (uc *UseCase) observe(apt *domain.Appointment, info *RefundInfo, now time.Time) {
	if info == nil {
		uc.metrics.ObserveCancellation(string(domain.TierFor(apt.StartAt, now)), false, 0, apt.Currency)
		return
	}
	amount := 0.0
	if info.Refunded {
		amount = info.RefundAmount.InexactFloat64()
	}
	uc.metrics.ObserveCancellation(string(info.Tier), info.Refunded, amount, info.Currency)
}

func (uc *UseCase) mapError(err error) error {
	for _, known := range []error{
		ErrAppointmentNotFound,
		ErrInvalidState,
		ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	uc.logger.Error("CancelAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
