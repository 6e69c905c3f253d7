package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// SessionType how the session is held
type SessionType string

const (
	SessionOnline   SessionType = "online"
	SessionInPerson SessionType = "in_person"
)

// IsValid reports whether the session type is known
func (s SessionType) IsValid() bool {
	return s == SessionOnline || s == SessionInPerson
}

// Appointment represents a booked session between a client and a therapist
type Appointment struct {
	ID              int64
	ClientID        int64
	TherapistID     int64
	StartAt         time.Time
	DurationMinutes int
	SessionType     SessionType
	Status          AppointmentStatus
	Amount          decimal.Decimal
	Currency        string
	Notes           string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndAt returns start + duration
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsScheduled returns true if the appointment still occupies the therapist's time
func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// IsTerminal returns true for statuses that admit no further transitions
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled || a.Status == StatusNoShow
}

// CanTransitionTo checks the status machine: only SCHEDULED moves, and only to a different status
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.Status != StatusScheduled {
		return false
	}
	switch next {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Overlaps reports whether the appointment intersects [start, end) using half-open semantics
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(a.StartAt, a.EndAt(), start, end)
}

// IntervalsOverlap half-open overlap test for absolute instants
func IntervalsOverlap(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// FindConflict returns the first SCHEDULED appointment intersecting [start, start+duration),
// skipping excludeID (the appointment being moved); nil when the interval is free
func FindConflict(appointments []*Appointment, start time.Time, durationMinutes int, excludeID int64) *Appointment {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	for _, apt := range appointments {
		if apt.ID == excludeID || !apt.IsScheduled() {
			continue
		}
		if apt.Overlaps(start, end) {
			return apt
		}
	}
	return nil
}

// AppointmentsFilter filter for listing appointments
type AppointmentsFilter struct {
	ClientID    *int64
	TherapistID *int64
	From        *time.Time // start_at >= From
	To          *time.Time // start_at <= To
	Status      *AppointmentStatus
}

// ValidStatuses all known statuses
var ValidStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseAppointmentStatus validates a status string
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(s)
	for _, valid := range ValidStatuses {
		if status == valid {
			return status, true
		}
	}
	return "", false
}

// IsAccessibleBy reports whether the actor may read or act on the appointment:
// its client, its therapist, or an admin
func (a *Appointment) IsAccessibleBy(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleClient:
		return actor.UserID == a.ClientID
	case RoleTherapist:
		return actor.UserID == a.TherapistID
	default:
		return false
	}
}
