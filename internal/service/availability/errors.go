package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

var (
	// ErrRuleNotFound возвращается, когда правило не найдено или принадлежит другому терапевту
	ErrRuleNotFound = errors.New("availability: rule not found")

	// ErrTherapistNotFound возвращается, когда профиль терапевта не найден
	ErrTherapistNotFound = errors.New("availability: therapist not found")

	// ErrAccessDenied возвращается, когда расписание меняет не его владелец
	ErrAccessDenied = errors.New("availability: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrOverlapConflict возвращается, когда окно пересекается с другим активным окном того же дня
	ErrOverlapConflict = errors.New("availability: overlapping availability window")

	// ErrHasFutureBookings возвращается при попытке удалить расписание, пока есть будущие сессии
	ErrHasFutureBookings = errors.New("availability: therapist has future scheduled appointments")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

// ConflictError описывает найденное пересечение окон.
// Rule заполнено для пересечения с сохранённым правилом,
// CandidateIndex/OtherIndex указывают позиции в запросе (-1, если не применимо).
type ConflictError struct {
	Rule           *domain.AvailabilityRule
	DayOfWeek      int
	StartTime      string
	EndTime        string
	CandidateIndex int
	OtherIndex     int
}

func (e *ConflictError) Error() string {
	if e.Rule != nil {
		return fmt.Sprintf("%v: conflicts with rule id=%d on day %d %s-%s",
			ErrOverlapConflict, e.Rule.ID, e.DayOfWeek, e.StartTime, e.EndTime)
	}
	return fmt.Sprintf("%v: rules #%d and #%d overlap on day %d %s-%s",
		ErrOverlapConflict, e.CandidateIndex, e.OtherIndex, e.DayOfWeek, e.StartTime, e.EndTime)
}

func (e *ConflictError) Unwrap() error {
	return ErrOverlapConflict
}

// Details данные конфликта для ответа клиенту
func (e *ConflictError) Details() *models.ConflictDetails {
	details := &models.ConflictDetails{
		DayOfWeek: e.DayOfWeek,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
	}
	if e.Rule != nil {
		details.ConflictingRule = models.FromDomainRule(e.Rule)
	}
	if e.CandidateIndex >= 0 {
		details.RuleIndex = &e.CandidateIndex
	}
	if e.OtherIndex >= 0 {
		details.OtherRuleIndex = &e.OtherIndex
	}
	return details
}

func conflictWithRule(candidateIndex int, rule *domain.AvailabilityRule) *ConflictError {
	return &ConflictError{
		Rule:           rule,
		DayOfWeek:      rule.DayOfWeek,
		StartTime:      rule.StartTime.String(),
		EndTime:        rule.EndTime.String(),
		CandidateIndex: candidateIndex,
		OtherIndex:     -1,
	}
}

func conflictInRequest(i, j int, other *domain.AvailabilityRule) *ConflictError {
	return &ConflictError{
		DayOfWeek:      other.DayOfWeek,
		StartTime:      other.StartTime.String(),
		EndTime:        other.EndTime.String(),
		CandidateIndex: i,
		OtherIndex:     j,
	}
}
