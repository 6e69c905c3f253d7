package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/appointments/models"
)

// Service сервис чтения записей и завершения сессий
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Get получает запись по ID
// Доступно клиенту, терапевту записи и администратору
func (s *Service) Get(ctx context.Context, actor domain.Actor, appointmentID int64) (*models.AppointmentResponse, error) {
	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}

	apt, err := s.getAppointment(ctx, "Get", appointmentID)
	if err != nil {
		return nil, err
	}

	// Чужая запись неотличима от отсутствующей
	if !apt.IsAccessibleBy(actor) {
		s.logger.Warn("Get: user=%d has no access to appointment id=%d", actor.UserID, appointmentID)
		return nil, ErrAppointmentNotFound
	}

	return models.FromDomainAppointment(apt), nil
}

// List возвращает записи в рамках роли пользователя
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.AppointmentListResponse, error) {
	filter, err := s.scopeFilter(req)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointments(appointments), nil
}

// UpdateStatus закрывает прошедшую сессию: COMPLETED или NO_SHOW.
// Отмена выполняется только через политику отмены.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d -> %s by user=%d", req.AppointmentID, req.Status, req.Actor.UserID)

	// 1. Валидация
	if req.AppointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointment_id must be positive", ErrInvalidInput)
	}
	next, ok := domain.ParseAppointmentStatus(req.Status)
	if !ok || (next != domain.StatusCompleted && next != domain.StatusNoShow) {
		s.logger.Warn("UpdateStatus: unsupported status %q", req.Status)
		return nil, fmt.Errorf("%w: status must be completed or no_show", ErrInvalidInput)
	}

	var updated *domain.Appointment

	// 2. Чтение под блокировкой и смена статуса в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.getAppointment(txCtx, "UpdateStatus", req.AppointmentID)
		if err != nil {
			return err
		}

		if !apt.IsAccessibleBy(req.Actor) {
			s.logger.Warn("UpdateStatus: user=%d has no access to appointment id=%d", req.Actor.UserID, apt.ID)
			return ErrAppointmentNotFound
		}
		if !req.Actor.IsAdmin() && !req.Actor.IsTherapist(apt.TherapistID) {
			s.logger.Warn("UpdateStatus: user=%d cannot close appointment id=%d", req.Actor.UserID, apt.ID)
			return ErrAccessDenied
		}

		if !apt.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: appointment id=%d is %s", apt.ID, apt.Status)
			return fmt.Errorf("%w: appointment is %s", ErrInvalidState, apt.Status)
		}

		if s.timeProvider.Now().Before(apt.StartAt) {
			s.logger.Warn("UpdateStatus: appointment id=%d has not started yet", apt.ID)
			return fmt.Errorf("%w: appointment has not started yet", ErrInvalidState)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, apt.ID, next); err != nil {
			s.logger.Error("UpdateStatus: repository error: %v", err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		apt.Status = next
		updated = apt
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", updated.ID, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

func (s *Service) scopeFilter(req *models.ListRequest) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{From: req.From, To: req.To}

	if req.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*req.Status)
		if !ok {
			return filter, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
		}
		filter.Status = &status
	}
	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return filter, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	userID := req.Actor.UserID
	switch req.Actor.Role {
	case domain.RoleClient:
		filter.ClientID = &userID
	case domain.RoleTherapist:
		filter.TherapistID = &userID
	case domain.RoleAdmin:
		filter.ClientID = req.ClientID
		filter.TherapistID = req.TherapistID
	default:
		return filter, ErrAccessDenied
	}

	return filter, nil
}

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: failed to get appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	return apt, nil
}

func (s *Service) wrapTxError(err error) error {
	for _, known := range []error{ErrAppointmentNotFound, ErrAccessDenied, ErrInvalidState, ErrInternal} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
