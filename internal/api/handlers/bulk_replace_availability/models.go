package bulk_replace_availability

import (
	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
)

// BulkReplaceRequest HTTP модель массовой замены
type BulkReplaceRequest struct {
	Rules      []models.RuleInput `json:"rules"`
	ReplaceAll bool               `json:"replaceAll"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *BulkReplaceRequest) ToServiceRequest(actor domain.Actor, therapistID int64) *models.BulkReplaceRequest {
	return &models.BulkReplaceRequest{
		Actor:       actor,
		TherapistID: therapistID,
		Rules:       r.Rules,
		ReplaceAll:  r.ReplaceAll,
	}
}
