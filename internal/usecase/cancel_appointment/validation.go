package cancel_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// validateRequest валидирует запрос и нормализует причину отмены
func validateRequest(req *Request) (string, error) {
	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return "", fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	if reason == "" {
		reason = domain.DefaultCancellationReason
	}

	return reason, nil
}

// appendCancellationRecord дописывает в заметки запись об отмене с меткой времени
func appendCancellationRecord(notes string, at time.Time, actor domain.Actor, reason string) string {
	record := fmt.Sprintf("[%s] Cancelled by %s #%d: %s", at.UTC().Format(time.RFC3339), actor.Role, actor.UserID, reason)
	if notes == "" {
		return record
	}
	return notes + "\n" + record
}

// refundDescription описание платежа после возврата
func refundDescription(description string, info *RefundInfo) string {
	annotation := fmt.Sprintf("Refunded %s %s, cancellation fee %s %s",
		info.RefundAmount.StringFixed(2), info.Currency, info.CancellationFee.StringFixed(2), info.Currency)
	if description == "" {
		return annotation
	}
	return description + "; " + annotation
}
