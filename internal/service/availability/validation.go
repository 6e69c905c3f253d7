package availability

import (
	"fmt"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// validateRuleInput проверяет окно и собирает доменное правило
func validateRuleInput(therapistID int64, in models.RuleInput) (*domain.AvailabilityRule, error) {
	if err := validateDayOfWeek(in.DayOfWeek); err != nil {
		return nil, err
	}

	start, err := parseTime("startTime", in.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime("endTime", in.EndTime)
	if err != nil {
		return nil, err
	}

	if err := types.ValidateInterval(start, end); err != nil {
		return nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	active := true
	if in.IsAvailable != nil {
		active = *in.IsAvailable
	}

	return &domain.AvailabilityRule{
		TherapistID: therapistID,
		DayOfWeek:   in.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsActive:    active,
	}, nil
}

// validatePatch проверяет переданные поля частичного обновления
func validatePatch(req *models.UpdateRuleRequest) (domain.AvailabilityRulePatch, error) {
	patch := domain.AvailabilityRulePatch{
		DayOfWeek: req.DayOfWeek,
		IsActive:  req.IsAvailable,
	}

	if req.DayOfWeek != nil {
		if err := validateDayOfWeek(*req.DayOfWeek); err != nil {
			return patch, err
		}
	}

	if req.StartTime != nil {
		start, err := parseTime("startTime", *req.StartTime)
		if err != nil {
			return patch, err
		}
		patch.StartTime = &start
	}

	if req.EndTime != nil {
		end, err := parseTime("endTime", *req.EndTime)
		if err != nil {
			return patch, err
		}
		patch.EndTime = &end
	}

	if patch.StartTime != nil && patch.EndTime != nil {
		if err := types.ValidateInterval(*patch.StartTime, *patch.EndTime); err != nil {
			return patch, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
	}

	if patch.IsEmpty() {
		return patch, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	return patch, nil
}

func validateDayOfWeek(day int) error {
	if day < domain.MinDayOfWeek || day > domain.MaxDayOfWeek {
		return fmt.Errorf("%w: dayOfWeek must be in [%d, %d]", ErrInvalidInput, domain.MinDayOfWeek, domain.MaxDayOfWeek)
	}
	return nil
}

func parseTime(field, value string) (types.TimeString, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	t, err := types.NewTimeStringFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
	}
	return t, nil
}

func validateIDs(therapistID int64, ids ...int64) error {
	if therapistID <= 0 {
		return fmt.Errorf("%w: therapistId must be positive", ErrInvalidInput)
	}
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: ruleId must be positive", ErrInvalidInput)
		}
	}
	return nil
}
