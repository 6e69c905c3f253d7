package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// Request модели

// RuleInput окно доступности в запросе
type RuleInput struct {
	DayOfWeek   int    `json:"dayOfWeek"`   // 0 = воскресенье ... 6 = суббота
	StartTime   string `json:"startTime"`   // HH:MM
	EndTime     string `json:"endTime"`     // HH:MM
	IsAvailable *bool  `json:"isAvailable"` // по умолчанию true
}

// CreateRuleRequest запрос на создание правила
type CreateRuleRequest struct {
	Actor       domain.Actor
	TherapistID int64
	Rule        RuleInput
}

// UpdateRuleRequest частичное обновление правила
// Обновляются только переданные поля
type UpdateRuleRequest struct {
	Actor       domain.Actor
	TherapistID int64
	RuleID      int64
	DayOfWeek   *int    `json:"dayOfWeek,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	IsAvailable *bool   `json:"isAvailable,omitempty"`
}

// DeleteRuleRequest запрос на удаление правила
type DeleteRuleRequest struct {
	Actor       domain.Actor
	TherapistID int64
	RuleID      int64
}

// BulkReplaceRequest запрос на массовую замену расписания
type BulkReplaceRequest struct {
	Actor       domain.Actor
	TherapistID int64
	Rules       []RuleInput `json:"rules"`
	ReplaceAll  bool        `json:"replaceAll"`
}

// Response модели

// RuleResponse правило доступности
type RuleResponse struct {
	ID          int64     `json:"id"`
	TherapistID int64     `json:"therapistId"`
	DayOfWeek   int       `json:"dayOfWeek"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RuleListResponse список правил
type RuleListResponse struct {
	TherapistID int64          `json:"therapistId"`
	Rules       []RuleResponse `json:"rules"`
}

// FromDomainRule конвертирует доменное правило в ответ
func FromDomainRule(rule *domain.AvailabilityRule) *RuleResponse {
	return &RuleResponse{
		ID:          rule.ID,
		TherapistID: rule.TherapistID,
		DayOfWeek:   rule.DayOfWeek,
		StartTime:   rule.StartTime.String(),
		EndTime:     rule.EndTime.String(),
		IsAvailable: rule.IsActive,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
}

// FromDomainRules конвертирует список правил
func FromDomainRules(therapistID int64, rules []*domain.AvailabilityRule) *RuleListResponse {
	resp := &RuleListResponse{
		TherapistID: therapistID,
		Rules:       make([]RuleResponse, 0, len(rules)),
	}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, *FromDomainRule(rule))
	}
	return resp
}

// ConflictDetails описание пересечения для ответа 409
type ConflictDetails struct {
	DayOfWeek       int           `json:"dayOfWeek"`
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	ConflictingRule *RuleResponse `json:"conflictingRule,omitempty"`
	RuleIndex       *int          `json:"ruleIndex,omitempty"`
	OtherRuleIndex  *int          `json:"otherRuleIndex,omitempty"`
}
