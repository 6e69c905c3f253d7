package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// CreateRequest запрос на создание платежа за запись
type CreateRequest struct {
	Actor         domain.Actor
	AppointmentID int64
}

// UpdateStatusRequest callback платёжного шлюза
type UpdateStatusRequest struct {
	Actor     domain.Actor
	PaymentID int64
	Status    string `json:"status"`
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID             int64     `json:"id"`
	AppointmentID  int64     `json:"appointmentId"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	RefundedAmount *string   `json:"refundedAmount,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromDomainPayment конвертирует доменный платёж в ответ
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:            p.ID,
		AppointmentID: p.AppointmentID,
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Status:        string(p.Status),
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.RefundedAmount != nil {
		refunded := p.RefundedAmount.StringFixed(2)
		resp.RefundedAmount = &refunded
	}
	return resp
}
