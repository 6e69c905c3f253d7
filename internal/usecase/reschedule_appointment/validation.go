package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.NewStartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.NewStartAt.Second() != 0 || req.NewStartAt.Nanosecond() != 0 {
		return fmt.Errorf("%w: startAt must be a whole minute", ErrInvalidInput)
	}

	return nil
}

// appendRescheduleRecord дописывает в заметки запись о переносе с меткой времени и комиссией
func appendRescheduleRecord(notes string, at time.Time, actor domain.Actor, from, to time.Time, fee decimal.Decimal, currency string) string {
	record := fmt.Sprintf("[%s] Rescheduled by %s #%d from %s to %s, fee %s %s",
		at.UTC().Format(time.RFC3339), actor.Role, actor.UserID,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
		fee.StringFixed(2), currency)
	if notes == "" {
		return record
	}
	return notes + "\n" + record
}
