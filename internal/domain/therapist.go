package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role of the acting user, supplied by the identity collaborator
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleTherapist || r == RoleAdmin
}

// Actor the authenticated user performing an operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsTherapist returns true if the actor is the therapist with the given id
func (a Actor) IsTherapist(therapistID int64) bool {
	return a.Role == RoleTherapist && a.UserID == therapistID
}

// TherapistProfile read-only view of a therapist used for existence checks and pricing
type TherapistProfile struct {
	ID          int64
	DisplayName string
	HourlyRate  decimal.Decimal
	Currency    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceFor returns the price of a session of the given length
func (t *TherapistProfile) PriceFor(durationMinutes int) decimal.Decimal {
	return t.HourlyRate.Mul(decimal.NewFromInt(int64(durationMinutes))).Div(decimal.NewFromInt(60)).Round(2)
}
