package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
)

// UseCase use case переноса записи с применением политики переноса
type UseCase struct {
	appointmentRepo AppointmentRepository
	ruleRepo        RuleRepository
	therapistRepo   TherapistRepository
	txManager       TransactionManager
	locker          Locker
	publisher       EventPublisher
	fee             decimal.Decimal
	currency        string
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// fee - фиксированная комиссия за перенос менее чем за 24 часа
func NewUseCase(
	appointmentRepo AppointmentRepository,
	ruleRepo RuleRepository,
	therapistRepo TherapistRepository,
	txManager TransactionManager,
	locker Locker,
	publisher EventPublisher,
	fee decimal.Decimal,
	currency string,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		ruleRepo:        ruleRepo,
		therapistRepo:   therapistRepo,
		txManager:       txManager,
		locker:          locker,
		publisher:       publisher,
		fee:             fee,
		currency:        currency,
		location:        loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит запись на новое время.
// Тариф считается от текущего начала сессии, новый интервал проверяется целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d to %s by user=%d",
		req.AppointmentID, req.NewStartAt.Format(time.RFC3339), req.Actor.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Предварительное чтение без блокировки: нужен терапевт для порядка блокировок
	current, err := uc.getAppointment(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	// Чужая запись неотличима от отсутствующей
	if !current.IsAccessibleBy(req.Actor) {
		uc.logger.Warn("RescheduleAppointment: user=%d has no access to appointment id=%d", req.Actor.UserID, current.ID)
		return nil, ErrAppointmentNotFound
	}

	if !req.NewStartAt.After(now) {
		uc.logger.Warn("RescheduleAppointment: new start %s is not in the future", req.NewStartAt.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	var resp *Response

	// 3. Блокировка терапевта, затем транзакция: профиль терапевта -> запись
	err = uc.locker.WithTherapistLock(ctx, current.TherapistID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			if _, err := uc.therapistRepo.LockByID(txCtx, current.TherapistID); err != nil {
				uc.logger.Error("RescheduleAppointment: failed to lock therapist id=%d: %v", current.TherapistID, err)
				return fmt.Errorf("%w: failed to lock therapist: %v", ErrInternal, err)
			}

			// 3.1. Перечитываем запись под блокировкой
			apt, err := uc.getAppointment(txCtx, req.AppointmentID)
			if err != nil {
				return err
			}
			if !apt.IsScheduled() {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d is %s", apt.ID, apt.Status)
				return fmt.Errorf("%w: appointment is %s", ErrInvalidState, apt.Status)
			}
			if apt.StartAt.Equal(req.NewStartAt) {
				return fmt.Errorf("%w: new start equals the current one", ErrInvalidInput)
			}

			// 3.2. Политика переноса по времени до текущего начала
			terms := domain.EvaluateReschedule(apt.StartAt, now, uc.fee)
			if !terms.Allowed {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d starts in %.2fh", apt.ID, terms.HoursUntil)
				return ErrTooLateToReschedule
			}

			// 3.3. Новый интервал целиком в окне доступности
			newLocal := req.NewStartAt.In(uc.location)
			rules, err := uc.ruleRepo.GetActiveByTherapistAndDay(txCtx, apt.TherapistID, int(newLocal.Weekday()))
			if err != nil {
				uc.logger.Error("RescheduleAppointment: failed to get rules: %v", err)
				return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
			}
			if domain.FindCoveringRule(rules, domain.MinuteOfDay(newLocal), apt.DurationMinutes) == nil {
				uc.logger.Warn("RescheduleAppointment: %s +%dmin is outside availability",
					newLocal.Format(time.RFC3339), apt.DurationMinutes)
				return ErrOutsideAvailability
			}

			// 3.4. Пересечения по всему интервалу, без учёта самой записи
			newEnd := req.NewStartAt.Add(time.Duration(apt.DurationMinutes) * time.Minute)
			existing, err := uc.appointmentRepo.GetScheduledOverlapping(txCtx, apt.TherapistID, req.NewStartAt, newEnd)
			if err != nil {
				uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
				return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}
			if conflict := domain.FindConflict(existing, req.NewStartAt, apt.DurationMinutes, apt.ID); conflict != nil {
				uc.logger.Warn("RescheduleAppointment: new interval overlaps appointment id=%d", conflict.ID)
				return ErrSlotNotAvailable
			}

			// 3.5. Переносим и фиксируем комиссию в заметках
			notes := appendRescheduleRecord(apt.Notes, now, req.Actor, apt.StartAt, req.NewStartAt, terms.Fee, uc.currency)
			if err := uc.appointmentRepo.Reschedule(txCtx, apt.ID, req.NewStartAt, notes); err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
					uc.logger.Warn("RescheduleAppointment: slot taken concurrently for therapist=%d", apt.TherapistID)
					return ErrSlotNotAvailable
				}
				uc.logger.Error("RescheduleAppointment: failed to reschedule appointment id=%d: %v", apt.ID, err)
				return fmt.Errorf("%w: failed to reschedule: %v", ErrInternal, err)
			}

			previous := apt.StartAt
			apt.StartAt = req.NewStartAt
			apt.Notes = notes
			resp = &Response{
				Appointment:   apt,
				PreviousStart: previous,
				Tier:          terms.Tier,
				HoursUntil:    terms.HoursUntil,
				RescheduleFee: terms.Fee,
				Currency:      uc.currency,
			}
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%d moved to %s, fee %s",
		resp.Appointment.ID, resp.Appointment.StartAt.Format(time.RFC3339), resp.RescheduleFee.StringFixed(2))

	// 4. Событие после фиксации
	event := domain.NewAppointmentEvent(domain.EventAppointmentRescheduled, resp.Appointment, req.Actor.UserID, now)
	event.Details["previousStartAt"] = resp.PreviousStart.UTC().Format(time.RFC3339)
	event.Details["fee"] = resp.RescheduleFee.StringFixed(2)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("RescheduleAppointment: failed to publish event for appointment id=%d: %v", resp.Appointment.ID, err)
	}

	return resp, nil
}

func (uc *UseCase) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	apt, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return apt, nil
}

func (uc *UseCase) mapError(err error) error {
	if errors.Is(err, lock.ErrLockNotAcquired) {
		uc.logger.Warn("RescheduleAppointment: therapist lock is held by another request")
		return ErrTherapistBusy
	}
	for _, known := range []error{
		ErrAppointmentNotFound,
		ErrInvalidInput,
		ErrInvalidState,
		ErrTooLateToReschedule,
		ErrOutsideAvailability,
		ErrSlotNotAvailable,
		ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	uc.logger.Error("RescheduleAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
