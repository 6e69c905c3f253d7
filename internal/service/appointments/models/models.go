package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// Request модели

// ListRequest запрос списка записей.
// Клиент видит только свои записи, терапевт только свои сессии,
// администратор фильтрует по ClientID/TherapistID.
type ListRequest struct {
	Actor       domain.Actor
	ClientID    *int64
	TherapistID *int64
	From        *time.Time
	To          *time.Time
	Status      *string
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Actor         domain.Actor
	AppointmentID int64
	Status        string `json:"status"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	ClientID           int64      `json:"clientId"`
	TherapistID        int64      `json:"therapistId"`
	StartAt            time.Time  `json:"startAt"`
	EndAt              time.Time  `json:"endAt"`
	DurationMinutes    int        `json:"durationMinutes"`
	SessionType        string     `json:"sessionType"`
	Status             string     `json:"status"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	Notes              string     `json:"notes,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromDomainAppointment конвертирует доменную запись в ответ
func FromDomainAppointment(apt *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 apt.ID,
		ClientID:           apt.ClientID,
		TherapistID:        apt.TherapistID,
		StartAt:            apt.StartAt,
		EndAt:              apt.EndAt(),
		DurationMinutes:    apt.DurationMinutes,
		SessionType:        string(apt.SessionType),
		Status:             string(apt.Status),
		Amount:             apt.Amount.StringFixed(2),
		Currency:           apt.Currency,
		Notes:              apt.Notes,
		CancellationReason: apt.CancellationReason,
		CancelledAt:        apt.CancelledAt,
		CreatedAt:          apt.CreatedAt,
		UpdatedAt:          apt.UpdatedAt,
	}
}

// FromDomainAppointments конвертирует список записей
func FromDomainAppointments(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{Appointments: make([]AppointmentResponse, 0, len(appointments))}
	for _, apt := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(apt))
	}
	return resp
}
