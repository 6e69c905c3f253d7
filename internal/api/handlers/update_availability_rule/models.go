package update_availability_rule

import (
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

// UpdateRuleRequest HTTP модель частичного обновления
type UpdateRuleRequest struct {
	DayOfWeek   *int    `json:"dayOfWeek,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateRuleRequest) ToServiceRequest(actor domain.Actor, therapistID, ruleID int64) *models.UpdateRuleRequest {
	return &models.UpdateRuleRequest{
		Actor:       actor,
		TherapistID: therapistID,
		RuleID:      ruleID,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsAvailable: r.IsAvailable,
	}
}
