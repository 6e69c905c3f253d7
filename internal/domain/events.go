package domain

import "time"

// AppointmentEventType kind of appointment lifecycle event
type AppointmentEventType string

const (
	EventAppointmentCreated     AppointmentEventType = "appointment.created"
	EventAppointmentCancelled   AppointmentEventType = "appointment.cancelled"
	EventAppointmentRescheduled AppointmentEventType = "appointment.rescheduled"
)

// AppointmentEvent published after a committed appointment change
type AppointmentEvent struct {
	Type          AppointmentEventType
	AppointmentID int64
	ClientID      int64
	TherapistID   int64
	StartAt       time.Time
	ActorID       int64
	OccurredAt    time.Time
	Details       map[string]string
}

// NewAppointmentEvent builds an event from the appointment's current state
func NewAppointmentEvent(eventType AppointmentEventType, apt *Appointment, actorID int64, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:          eventType,
		AppointmentID: apt.ID,
		ClientID:      apt.ClientID,
		TherapistID:   apt.TherapistID,
		StartAt:       apt.StartAt,
		ActorID:       actorID,
		OccurredAt:    at,
		Details:       map[string]string{},
	}
}
