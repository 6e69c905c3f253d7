package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment monetary record tied 1:1 to an appointment
type Payment struct {
	ID             int64
	AppointmentID  int64
	Amount         decimal.Decimal
	Currency       string
	Status         PaymentStatus
	RefundedAmount *decimal.Decimal
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsCompleted returns true if the money was captured
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentCompleted
}

// IsTerminal returns true for COMPLETED, FAILED and REFUNDED
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentCompleted || p.Status == PaymentFailed || p.Status == PaymentRefunded
}

// CanSettleTo reports whether the gateway path may move the payment to next.
// REFUNDED is reachable only through cancellation, never through settlement.
func (p *Payment) CanSettleTo(next PaymentStatus) bool {
	if p.Status != PaymentPending {
		return false
	}
	return next == PaymentCompleted || next == PaymentFailed
}
