package domain

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// AvailabilityRule represents a therapist's recurring weekly open window
type AvailabilityRule struct {
	ID          int64
	TherapistID int64
	DayOfWeek   int // 0 = Sunday ... 6 = Saturday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether two rules on the same day share any minute.
// Only the time window is compared; callers filter by therapist, day and activity.
func (r *AvailabilityRule) Overlaps(other *AvailabilityRule) bool {
	return types.OverlapsTimeStrings(r.StartTime, r.EndTime, other.StartTime, other.EndTime)
}

// Weekday returns the rule's day as time.Weekday
func (r *AvailabilityRule) Weekday() time.Weekday {
	return time.Weekday(r.DayOfWeek)
}

// Covers reports whether [startMinute, startMinute+durationMinutes) lies inside the
// rule's window and startMinute sits on the rule's slot grid
func (r *AvailabilityRule) Covers(startMinute, durationMinutes int) bool {
	ruleStart := r.StartTime.MustMinutes()
	ruleEnd := r.EndTime.MustMinutes()

	if startMinute < ruleStart || startMinute+durationMinutes > ruleEnd {
		return false
	}
	return (startMinute-ruleStart)%SlotStepMinutes == 0
}

// FindCoveringRule returns the first active rule covering the interval, or nil
func FindCoveringRule(rules []*AvailabilityRule, startMinute, durationMinutes int) *AvailabilityRule {
	for _, rule := range rules {
		if rule.IsActive && rule.Covers(startMinute, durationMinutes) {
			return rule
		}
	}
	return nil
}

// FindOverlappingRule returns the first rule in others that collides with candidate.
// Rules with the same ID as candidate are skipped (self-exclusion on update).
func FindOverlappingRule(candidate *AvailabilityRule, others []*AvailabilityRule) *AvailabilityRule {
	if !candidate.IsActive {
		return nil
	}
	for _, other := range others {
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if !other.IsActive || other.TherapistID != candidate.TherapistID || other.DayOfWeek != candidate.DayOfWeek {
			continue
		}
		if candidate.Overlaps(other) {
			return other
		}
	}
	return nil
}

// AvailabilityRulePatch partial update of a rule; nil fields keep their current value
type AvailabilityRulePatch struct {
	DayOfWeek *int
	StartTime *types.TimeString
	EndTime   *types.TimeString
	IsActive  *bool
}

// IsEmpty reports whether the patch changes nothing
func (p AvailabilityRulePatch) IsEmpty() bool {
	return p.DayOfWeek == nil && p.StartTime == nil && p.EndTime == nil && p.IsActive == nil
}

// Apply returns a copy of rule with the patch merged in
func (p AvailabilityRulePatch) Apply(rule *AvailabilityRule) *AvailabilityRule {
	merged := *rule
	if p.DayOfWeek != nil {
		merged.DayOfWeek = *p.DayOfWeek
	}
	if p.StartTime != nil {
		merged.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		merged.EndTime = *p.EndTime
	}
	if p.IsActive != nil {
		merged.IsActive = *p.IsActive
	}
	return &merged
}

// FindPairwiseOverlap scans rules in input order and returns the indexes of the
// first colliding pair of active same-day rules; ok is false when none collide
func FindPairwiseOverlap(rules []*AvailabilityRule) (i, j int, ok bool) {
	for i = 0; i < len(rules); i++ {
		if !rules[i].IsActive {
			continue
		}
		for j = i + 1; j < len(rules); j++ {
			if !rules[j].IsActive || rules[j].DayOfWeek != rules[i].DayOfWeek {
				continue
			}
			if rules[i].Overlaps(rules[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
