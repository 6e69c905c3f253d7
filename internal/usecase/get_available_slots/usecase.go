package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	therapistRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/therapist"
)

// UseCase use case для получения слотов терапевта на дату
type UseCase struct {
	ruleRepo        RuleRepository
	appointmentRepo AppointmentRepository
	therapistRepo   TherapistRepository
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// loc - часовой пояс, в котором заданы окна доступности
func NewUseCase(
	ruleRepo RuleRepository,
	appointmentRepo AppointmentRepository,
	therapistRepo TherapistRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		ruleRepo:        ruleRepo,
		appointmentRepo: appointmentRepo,
		therapistRepo:   therapistRepo,
		location:        loc,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Результат носит справочный характер: при записи интервал проверяется заново целиком.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: therapist=%d, date=%s", req.TherapistID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем, что терапевт существует
	if _, err := uc.therapistRepo.GetByID(ctx, req.TherapistID); err != nil {
		if errors.Is(err, therapistRepo.ErrTherapistNotFound) {
			uc.logger.Warn("GetAvailableSlots: therapist id=%d not found", req.TherapistID)
			return nil, ErrTherapistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get therapist id=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
	}

	dayStart, dayEnd := dayWindow(req.Date, uc.location)
	resp := &Response{
		Date:        dayStart,
		TherapistID: req.TherapistID,
		Slots:       []Slot{},
	}

	// 4. Получаем активные окна на день недели
	rules, err := uc.ruleRepo.GetActiveByTherapistAndDay(ctx, req.TherapistID, int(dayStart.Weekday()))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}
	if len(rules) == 0 {
		uc.logger.Info("GetAvailableSlots: therapist=%d has no availability on %s", req.TherapistID, dayStart.Weekday())
		return resp, nil
	}

	// 5. Получаем запланированные сессии этого дня
	appointments, err := uc.appointmentRepo.GetScheduledOverlapping(ctx, req.TherapistID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Нарезаем слоты и отмечаем занятые
	resp.Slots = generateSlots(rules, appointments, dayStart, now, uc.location)

	uc.logger.Info("GetAvailableSlots: generated %d slots for therapist=%d, date=%s",
		len(resp.Slots), req.TherapistID, dayStart.Format(domain.DateFormat))

	return resp, nil
}
