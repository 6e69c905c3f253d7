package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateCancellation(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(1500)

	tests := []struct {
		name       string
		hoursUntil time.Duration
		tier       PolicyTier
		eligible   bool
		refund     string
		fee        string
	}{
		{name: "30h full refund", hoursUntil: 30 * time.Hour, tier: TierFull, eligible: true, refund: "1500", fee: "0"},
		{name: "exactly 24h is full refund", hoursUntil: 24 * time.Hour, tier: TierFull, eligible: true, refund: "1500", fee: "0"},
		{name: "10h partial refund", hoursUntil: 10 * time.Hour, tier: TierPartial, eligible: true, refund: "750", fee: "750"},
		{name: "exactly 2h is partial", hoursUntil: 2 * time.Hour, tier: TierPartial, eligible: true, refund: "750", fee: "750"},
		{name: "just under 24h is partial", hoursUntil: 24*time.Hour - time.Second, tier: TierPartial, eligible: true, refund: "750", fee: "750"},
		{name: "1h no refund", hoursUntil: time.Hour, tier: TierLate, eligible: false, refund: "0", fee: "1500"},
		{name: "past appointment no refund", hoursUntil: -time.Hour, tier: TierLate, eligible: false, refund: "0", fee: "1500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := EvaluateCancellation(amount, now.Add(tt.hoursUntil), now)

			assert.Equal(t, tt.tier, terms.Tier)
			assert.Equal(t, tt.eligible, terms.RefundEligible)
			assert.True(t, decimal.RequireFromString(tt.refund).Equal(terms.RefundAmount), "refund %s", terms.RefundAmount)
			assert.True(t, decimal.RequireFromString(tt.fee).Equal(terms.CancellationFee), "fee %s", terms.CancellationFee)
			assert.True(t, terms.RefundAmount.Add(terms.CancellationFee).Equal(amount))
		})
	}
}

func TestEvaluateCancellation_OddAmountKeepsSum(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("999.99")

	terms := EvaluateCancellation(amount, now.Add(5*time.Hour), now)

	assert.True(t, terms.RefundAmount.Add(terms.CancellationFee).Equal(amount))
}

func TestEvaluateReschedule(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	fee := decimal.NewFromInt(500)

	free := EvaluateReschedule(now.Add(48*time.Hour), now, fee)
	assert.True(t, free.Allowed)
	assert.True(t, free.Fee.IsZero())

	paid := EvaluateReschedule(now.Add(3*time.Hour), now, fee)
	assert.True(t, paid.Allowed)
	assert.True(t, paid.Fee.Equal(fee))

	blocked := EvaluateReschedule(now.Add(90*time.Minute), now, fee)
	assert.False(t, blocked.Allowed)
	assert.Equal(t, TierLate, blocked.Tier)
}
