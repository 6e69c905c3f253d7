package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy tier boundaries on time left before the appointment start
const (
	FreeChangeNotice = 24 * time.Hour // >= : full refund, free reschedule
	MinChangeNotice  = 2 * time.Hour  // <  : no refund, reschedule blocked
)

// PolicyTier threshold band on hours-until-appointment
type PolicyTier string

const (
	TierFull    PolicyTier = "full"    // >= 24h
	TierPartial PolicyTier = "partial" // [2h, 24h)
	TierLate    PolicyTier = "late"    // < 2h
)

var partialRefundShare = decimal.NewFromFloat(0.5)

// TierFor classifies the notice given before startAt
func TierFor(startAt, now time.Time) PolicyTier {
	until := startAt.Sub(now)
	switch {
	case until >= FreeChangeNotice:
		return TierFull
	case until >= MinChangeNotice:
		return TierPartial
	default:
		return TierLate
	}
}

// HoursUntil hours between now and startAt (negative for past appointments)
func HoursUntil(startAt, now time.Time) float64 {
	return startAt.Sub(now).Hours()
}

// CancellationTerms outcome of the cancellation policy for a paid amount
type CancellationTerms struct {
	Tier            PolicyTier
	HoursUntil      float64
	RefundEligible  bool
	RefundAmount    decimal.Decimal
	CancellationFee decimal.Decimal
}

// EvaluateCancellation applies the refund table:
// >= 24h full refund, no fee; [2h, 24h) half refund, half fee; < 2h no refund, full fee.
// Refund and fee always sum to amount.
func EvaluateCancellation(amount decimal.Decimal, startAt, now time.Time) CancellationTerms {
	terms := CancellationTerms{
		Tier:       TierFor(startAt, now),
		HoursUntil: HoursUntil(startAt, now),
	}

	switch terms.Tier {
	case TierFull:
		terms.RefundEligible = true
		terms.RefundAmount = amount
		terms.CancellationFee = decimal.Zero
	case TierPartial:
		terms.RefundEligible = true
		terms.RefundAmount = amount.Mul(partialRefundShare).Round(2)
		terms.CancellationFee = amount.Sub(terms.RefundAmount)
	default:
		terms.RefundEligible = false
		terms.RefundAmount = decimal.Zero
		terms.CancellationFee = amount
	}

	return terms
}

// RescheduleTerms outcome of the reschedule policy
type RescheduleTerms struct {
	Tier       PolicyTier
	HoursUntil float64
	Allowed    bool
	Fee        decimal.Decimal
}

// EvaluateReschedule mirrors the cancellation tiers:
// >= 24h free; [2h, 24h) fixed fee; < 2h not allowed.
func EvaluateReschedule(startAt, now time.Time, fixedFee decimal.Decimal) RescheduleTerms {
	terms := RescheduleTerms{
		Tier:       TierFor(startAt, now),
		HoursUntil: HoursUntil(startAt, now),
		Fee:        decimal.Zero,
	}

	switch terms.Tier {
	case TierFull:
		terms.Allowed = true
	case TierPartial:
		terms.Allowed = true
		terms.Fee = fixedFee
	default:
		terms.Allowed = false
	}

	return terms
}
