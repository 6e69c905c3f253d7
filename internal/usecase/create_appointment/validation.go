package create_appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// validateRequest валидирует входные данные и проставляет длительность по умолчанию
func validateRequest(req *Request) error {
	if req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.StartAt.Second() != 0 || req.StartAt.Nanosecond() != 0 {
		return fmt.Errorf("%w: startAt must be a whole minute", ErrInvalidInput)
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.DefaultAppointmentDurationMinutes
	}
	if !domain.IsAllowedDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: duration must be one of %v minutes", ErrInvalidInput, domain.AllowedDurations)
	}

	if !domain.SessionType(req.SessionType).IsValid() {
		return fmt.Errorf("%w: sessionType must be online or in_person", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateStart проверяет, что сессия начинается строго в будущем
func validateStart(startAt, now time.Time) error {
	if !startAt.After(now) {
		return ErrStartInPast
	}
	return nil
}
