package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	therapistRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/therapist"
)

// UseCase use case для записи клиента к терапевту
type UseCase struct {
	appointmentRepo AppointmentRepository
	ruleRepo        RuleRepository
	therapistRepo   TherapistRepository
	txManager       TransactionManager
	locker          Locker
	publisher       EventPublisher
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	ruleRepo RuleRepository,
	therapistRepo TherapistRepository,
	txManager TransactionManager,
	locker Locker,
	publisher EventPublisher,
	metrics Metrics,
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
		metrics:         metrics,
		location:        loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Весь интервал [start, start+duration) перепроверяется в транзакции под блокировкой терапевта,
// ранее показанные слоты не считаются гарантией.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%d, therapist=%d, start=%s, duration=%d",
		req.Actor.UserID, req.TherapistID, req.StartAt.Format(time.RFC3339), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Записываться может только клиент
	if req.Actor.Role != domain.RoleClient {
		uc.logger.Warn("CreateAppointment: user=%d with role %s cannot book", req.Actor.UserID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	// 3. Начало строго в будущем
	now := uc.timeProvider.Now()
	if err := validateStart(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateAppointment: start %s is not in the future", req.StartAt.Format(time.RFC3339))
		return nil, err
	}

	startLocal := req.StartAt.In(uc.location)
	var result *domain.Appointment

	// 4. Блокировка терапевта в Redis и сериализуемая транзакция
	err := uc.locker.WithTherapistLock(ctx, req.TherapistID, func(lockCtx context.Context) error {
		return uc.txManager.DoSerializable(lockCtx, func(txCtx context.Context) error {
			// 4.1. Блокируем профиль терапевта: записи к нему идут последовательно
			therapist, err := uc.therapistRepo.LockByID(txCtx, req.TherapistID)
			if err != nil {
				if errors.Is(err, therapistRepo.ErrTherapistNotFound) {
					uc.logger.Warn("CreateAppointment: therapist id=%d not found", req.TherapistID)
					return ErrTherapistNotFound
				}
				uc.logger.Error("CreateAppointment: failed to lock therapist id=%d: %v", req.TherapistID, err)
				return fmt.Errorf("%w: failed to lock therapist: %v", ErrInternal, err)
			}
			if !therapist.IsActive {
				uc.logger.Warn("CreateAppointment: therapist id=%d is inactive", req.TherapistID)
				return ErrTherapistInactive
			}

			// 4.2. Интервал должен целиком лежать в окне доступности на сетке 30 минут
			rules, err := uc.ruleRepo.GetActiveByTherapistAndDay(txCtx, req.TherapistID, int(startLocal.Weekday()))
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get rules: %v", err)
				return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
			}
			if domain.FindCoveringRule(rules, domain.MinuteOfDay(startLocal), req.DurationMinutes) == nil {
				uc.logger.Warn("CreateAppointment: %s +%dmin is outside availability of therapist=%d",
					startLocal.Format(time.RFC3339), req.DurationMinutes, req.TherapistID)
				return ErrOutsideAvailability
			}

			// 4.3. Проверяем пересечение всего интервала с запланированными сессиями (FOR UPDATE)
			endAt := req.StartAt.Add(time.Duration(req.DurationMinutes) * time.Minute)
			existing, err := uc.appointmentRepo.GetScheduledOverlapping(txCtx, req.TherapistID, req.StartAt, endAt)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
				return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}
			if conflict := domain.FindConflict(existing, req.StartAt, req.DurationMinutes, 0); conflict != nil {
				uc.logger.Warn("CreateAppointment: interval overlaps appointment id=%d", conflict.ID)
				return ErrSlotNotAvailable
			}

			// 4.4. Создаем запись; уникальный индекс страхует от гонки
			created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
				ClientID:        req.Actor.UserID,
				TherapistID:     req.TherapistID,
				StartAt:         req.StartAt,
				DurationMinutes: req.DurationMinutes,
				SessionType:     domain.SessionType(req.SessionType),
				Status:          domain.StatusScheduled,
				Amount:          therapist.PriceFor(req.DurationMinutes),
				Currency:        therapist.Currency,
				Notes:           req.Notes,
			})
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
					uc.logger.Warn("CreateAppointment: slot taken concurrently for therapist=%d", req.TherapistID)
					return ErrSlotNotAvailable
				}
				uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
			}

			result = created
			return nil
		})
	})
	if err != nil {
		return nil, uc.mapError(err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 5. Метрики и событие после фиксации
	uc.metrics.ObserveBooking(string(result.SessionType))

	event := domain.NewAppointmentEvent(domain.EventAppointmentCreated, result, req.Actor.UserID, now)
	event.Details["durationMinutes"] = fmt.Sprintf("%d", result.DurationMinutes)
	event.Details["amount"] = result.Amount.StringFixed(2)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) mapError(err error) error {
	if errors.Is(err, lock.ErrLockNotAcquired) {
		uc.logger.Warn("CreateAppointment: therapist lock is held by another request")
		return ErrTherapistBusy
	}
	for _, known := range []error{
		ErrTherapistNotFound,
		ErrTherapistInactive,
		ErrOutsideAvailability,
		ErrSlotNotAvailable,
		ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	uc.logger.Error("CreateAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
