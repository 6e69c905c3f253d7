package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	ruleRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/availability"
	therapistRepo "github.com/m04kA/SMC-TherapyBooking/internal/infra/storage/therapist"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

// Service сервис управления недельным расписанием терапевта.
// Все изменения выполняются в транзакции под блокировкой строки профиля терапевта,
// поэтому проверка пересечений и запись не разделены гонкой.
type Service struct {
	ruleRepo        RuleRepository
	appointmentRepo AppointmentRepository
	therapistRepo   TherapistRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	ruleRepo RuleRepository,
	appointmentRepo AppointmentRepository,
	therapistRepo TherapistRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:        ruleRepo,
		appointmentRepo: appointmentRepo,
		therapistRepo:   therapistRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// List возвращает все правила терапевта, упорядоченные по дню и времени начала
// Публичный метод
func (s *Service) List(ctx context.Context, therapistID int64) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching availability for therapist=%d", therapistID)

	if err := validateIDs(therapistID); err != nil {
		return nil, err
	}

	if _, err := s.therapistRepo.GetByID(ctx, therapistID); err != nil {
		return nil, s.mapTherapistError("List", therapistID, err)
	}

	rules, err := s.ruleRepo.GetByTherapist(ctx, therapistID)
	if err != nil {
		s.logger.Error("List: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(therapistID, rules), nil
}

// Create создает окно доступности
// Доступно только самому терапевту
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: therapist=%d day=%d %s-%s by user=%d",
		req.TherapistID, req.Rule.DayOfWeek, req.Rule.StartTime, req.Rule.EndTime, req.Actor.UserID)

	// 1. Валидируем входные данные до обращения к БД
	if err := validateIDs(req.TherapistID); err != nil {
		return nil, err
	}
	candidate, err := validateRuleInput(req.TherapistID, req.Rule)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что расписание меняет владелец
	if !req.Actor.IsTherapist(req.TherapistID) {
		s.logger.Warn("Create: user=%d cannot edit schedule of therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	var created *domain.AvailabilityRule

	// 3. Проверка пересечений и вставка в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.therapistRepo.LockByID(txCtx, req.TherapistID); err != nil {
			return s.mapTherapistError("Create", req.TherapistID, err)
		}

		existing, err := s.ruleRepo.GetActiveByTherapistAndDay(txCtx, req.TherapistID, candidate.DayOfWeek)
		if err != nil {
			s.logger.Error("Create: failed to get rules: %v", err)
			return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}

		if conflict := domain.FindOverlappingRule(candidate, existing); conflict != nil {
			s.logger.Warn("Create: window %s-%s overlaps rule id=%d", candidate.StartTime, candidate.EndTime, conflict.ID)
			return conflictWithRule(-1, conflict)
		}

		created, err = s.ruleRepo.Create(txCtx, candidate)
		if err != nil {
			s.logger.Error("Create: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("Create: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created), nil
}

// Update частично обновляет правило и перепроверяет результат против остальных окон дня
func (s *Service) Update(ctx context.Context, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: rule id=%d of therapist=%d by user=%d", req.RuleID, req.TherapistID, req.Actor.UserID)

	// 1. Валидируем переданные поля
	if err := validateIDs(req.TherapistID, req.RuleID); err != nil {
		return nil, err
	}
	patch, err := validatePatch(req)
	if err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права
	if !req.Actor.IsTherapist(req.TherapistID) {
		s.logger.Warn("Update: user=%d cannot edit schedule of therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	var updated *domain.AvailabilityRule

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.therapistRepo.LockByID(txCtx, req.TherapistID); err != nil {
			return s.mapTherapistError("Update", req.TherapistID, err)
		}

		// 3. Загружаем правило и проверяем владельца
		current, err := s.getOwnedRule(txCtx, "Update", req.TherapistID, req.RuleID)
		if err != nil {
			return err
		}

		// 4. Склеиваем и проверяем итоговое окно
		merged := patch.Apply(current)
		if !merged.StartTime.IsBefore(merged.EndTime) {
			s.logger.Warn("Update: merged window %s-%s is empty", merged.StartTime, merged.EndTime)
			return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}

		// 5. Сверяем со всеми другими окнами дня (само правило исключается)
		others, err := s.ruleRepo.GetActiveByTherapistAndDay(txCtx, req.TherapistID, merged.DayOfWeek)
		if err != nil {
			s.logger.Error("Update: failed to get rules: %v", err)
			return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}
		if conflict := domain.FindOverlappingRule(merged, others); conflict != nil {
			s.logger.Warn("Update: rule id=%d would overlap rule id=%d", merged.ID, conflict.ID)
			return conflictWithRule(-1, conflict)
		}

		updated, err = s.ruleRepo.Update(txCtx, merged)
		if err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			s.logger.Error("Update: repository error: %v", err)
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("Update: successfully updated rule id=%d", updated.ID)
	return models.FromDomainRule(updated), nil
}

// Delete удаляет правило. Запрещено, пока у терапевта есть будущие запланированные сессии.
func (s *Service) Delete(ctx context.Context, req *models.DeleteRuleRequest) error {
	s.logger.Info("Delete: rule id=%d of therapist=%d by user=%d", req.RuleID, req.TherapistID, req.Actor.UserID)

	if err := validateIDs(req.TherapistID, req.RuleID); err != nil {
		return err
	}

	if !req.Actor.IsTherapist(req.TherapistID) {
		s.logger.Warn("Delete: user=%d cannot edit schedule of therapist=%d", req.Actor.UserID, req.TherapistID)
		return ErrAccessDenied
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.therapistRepo.LockByID(txCtx, req.TherapistID); err != nil {
			return s.mapTherapistError("Delete", req.TherapistID, err)
		}

		if _, err := s.getOwnedRule(txCtx, "Delete", req.TherapistID, req.RuleID); err != nil {
			return err
		}

		if err := s.ensureNoFutureBookings(txCtx, "Delete", req.TherapistID); err != nil {
			return err
		}

		if err := s.ruleRepo.Delete(txCtx, req.RuleID); err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			s.logger.Error("Delete: repository error: %v", err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return s.wrapTxError(err)
	}

	s.logger.Info("Delete: successfully deleted rule id=%d", req.RuleID)
	return nil
}

// BulkReplace сохраняет набор окон.
// Сначала окна запроса попарно проверяются друг с другом в порядке следования.
// При ReplaceAll старое расписание удаляется и заменяется новым в одной транзакции,
// иначе каждое новое окно сверяется с уже сохранёнными.
func (s *Service) BulkReplace(ctx context.Context, req *models.BulkReplaceRequest) (*models.RuleListResponse, error) {
	s.logger.Info("BulkReplace: therapist=%d rules=%d replaceAll=%t by user=%d",
		req.TherapistID, len(req.Rules), req.ReplaceAll, req.Actor.UserID)

	// 1. Валидируем каждое окно
	if err := validateIDs(req.TherapistID); err != nil {
		return nil, err
	}
	candidates := make([]*domain.AvailabilityRule, 0, len(req.Rules))
	for i, in := range req.Rules {
		candidate, err := validateRuleInput(req.TherapistID, in)
		if err != nil {
			s.logger.Warn("BulkReplace: rule #%d validation failed: %v", i, err)
			return nil, fmt.Errorf("rule #%d: %w", i, err)
		}
		candidates = append(candidates, candidate)
	}

	// 2. Попарная проверка внутри запроса
	if i, j, found := domain.FindPairwiseOverlap(candidates); found {
		s.logger.Warn("BulkReplace: rules #%d and #%d overlap", i, j)
		return nil, conflictInRequest(i, j, candidates[j])
	}

	// 3. Проверяем права
	if !req.Actor.IsTherapist(req.TherapistID) {
		s.logger.Warn("BulkReplace: user=%d cannot edit schedule of therapist=%d", req.Actor.UserID, req.TherapistID)
		return nil, ErrAccessDenied
	}

	created := make([]*domain.AvailabilityRule, 0, len(candidates))

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.therapistRepo.LockByID(txCtx, req.TherapistID); err != nil {
			return s.mapTherapistError("BulkReplace", req.TherapistID, err)
		}

		if req.ReplaceAll {
			// 4a. Полная замена запрещена при будущих сессиях
			if err := s.ensureNoFutureBookings(txCtx, "BulkReplace", req.TherapistID); err != nil {
				return err
			}
			deleted, err := s.ruleRepo.DeleteByTherapist(txCtx, req.TherapistID)
			if err != nil {
				s.logger.Error("BulkReplace: failed to delete rules: %v", err)
				return fmt.Errorf("%w: failed to delete rules: %v", ErrInternal, err)
			}
			s.logger.Info("BulkReplace: removed %d rules of therapist=%d", deleted, req.TherapistID)
		} else {
			// 4b. Каждое окно сверяется с сохранёнными правилами своего дня
			byDay := make(map[int][]*domain.AvailabilityRule)
			for i, candidate := range candidates {
				existing, ok := byDay[candidate.DayOfWeek]
				if !ok {
					var err error
					existing, err = s.ruleRepo.GetActiveByTherapistAndDay(txCtx, req.TherapistID, candidate.DayOfWeek)
					if err != nil {
						s.logger.Error("BulkReplace: failed to get rules: %v", err)
						return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
					}
					byDay[candidate.DayOfWeek] = existing
				}
				if conflict := domain.FindOverlappingRule(candidate, existing); conflict != nil {
					s.logger.Warn("BulkReplace: rule #%d overlaps rule id=%d", i, conflict.ID)
					return conflictWithRule(i, conflict)
				}
			}
		}

		// 5. Вставляем новый набор
		for _, candidate := range candidates {
			rule, err := s.ruleRepo.Create(txCtx, candidate)
			if err != nil {
				s.logger.Error("BulkReplace: repository error: %v", err)
				return fmt.Errorf("%w: BulkReplace - repository error: %v", ErrInternal, err)
			}
			created = append(created, rule)
		}
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError(err)
	}

	s.logger.Info("BulkReplace: saved %d rules for therapist=%d", len(created), req.TherapistID)
	return models.FromDomainRules(req.TherapistID, created), nil
}

// getOwnedRule загружает правило; чужое правило неотличимо от отсутствующего
func (s *Service) getOwnedRule(ctx context.Context, op string, therapistID, ruleID int64) (*domain.AvailabilityRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("%s: rule id=%d not found", op, ruleID)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("%s: failed to get rule id=%d: %v", op, ruleID, err)
		return nil, fmt.Errorf("%w: failed to get rule: %v", ErrInternal, err)
	}

	if rule.TherapistID != therapistID {
		s.logger.Warn("%s: rule id=%d belongs to therapist=%d, not %d", op, ruleID, rule.TherapistID, therapistID)
		return nil, ErrRuleNotFound
	}

	return rule, nil
}

func (s *Service) ensureNoFutureBookings(ctx context.Context, op string, therapistID int64) error {
	has, err := s.appointmentRepo.HasFutureScheduled(ctx, therapistID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("%s: failed to check future appointments: %v", op, err)
		return fmt.Errorf("%w: failed to check future appointments: %v", ErrInternal, err)
	}
	if has {
		s.logger.Warn("%s: therapist=%d has future scheduled appointments", op, therapistID)
		return ErrHasFutureBookings
	}
	return nil
}

func (s *Service) mapTherapistError(op string, therapistID int64, err error) error {
	if errors.Is(err, therapistRepo.ErrTherapistNotFound) {
		s.logger.Warn("%s: therapist id=%d not found", op, therapistID)
		return ErrTherapistNotFound
	}
	s.logger.Error("%s: failed to get therapist id=%d: %v", op, therapistID, err)
	return fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
}

// wrapTxError оставляет ошибки сервиса как есть, сбои транзакции превращает в ErrInternal
func (s *Service) wrapTxError(err error) error {
	for _, known := range []error{
		ErrRuleNotFound,
		ErrTherapistNotFound,
		ErrInvalidInput,
		ErrOverlapConflict,
		ErrHasFutureBookings,
		ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
