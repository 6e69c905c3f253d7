package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TherapyBooking/pkg/ptr"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

func rule(id int64, day int, start, end string, active bool) *AvailabilityRule {
	return &AvailabilityRule{
		ID:          id,
		TherapistID: 7,
		DayOfWeek:   day,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsActive:    active,
	}
}

func TestFindOverlappingRule(t *testing.T) {
	existing := []*AvailabilityRule{rule(1, 1, "10:00", "11:00", true)}

	t.Run("containing window conflicts", func(t *testing.T) {
		conflict := FindOverlappingRule(rule(0, 1, "09:00", "12:00", true), existing)
		if assert.NotNil(t, conflict) {
			assert.Equal(t, int64(1), conflict.ID)
		}
	})

	t.Run("adjacent window is fine", func(t *testing.T) {
		assert.Nil(t, FindOverlappingRule(rule(0, 1, "11:00", "12:00", true), existing))
	})

	t.Run("other day is fine", func(t *testing.T) {
		assert.Nil(t, FindOverlappingRule(rule(0, 2, "10:00", "11:00", true), existing))
	})

	t.Run("inactive candidate is never checked", func(t *testing.T) {
		assert.Nil(t, FindOverlappingRule(rule(0, 1, "10:00", "11:00", false), existing))
	})

	t.Run("inactive existing rule is ignored", func(t *testing.T) {
		inactive := []*AvailabilityRule{rule(2, 1, "10:00", "11:00", false)}
		assert.Nil(t, FindOverlappingRule(rule(0, 1, "10:30", "11:30", true), inactive))
	})

	t.Run("self is excluded", func(t *testing.T) {
		assert.Nil(t, FindOverlappingRule(rule(1, 1, "10:30", "11:30", true), existing))
	})
}

func TestAvailabilityRuleCovers(t *testing.T) {
	r := rule(1, 1, "09:00", "12:00", true)

	assert.True(t, r.Covers(9*60, 60))
	assert.True(t, r.Covers(11*60, 60), "ends exactly at window end")
	assert.False(t, r.Covers(11*60+30, 60), "spills past window end")
	assert.False(t, r.Covers(9*60+15, 60), "off the 30-minute grid")
	assert.False(t, r.Covers(8*60+30, 60), "starts before window")
}

func TestAvailabilityRulePatchApply(t *testing.T) {
	original := rule(1, 1, "09:00", "12:00", true)

	merged := AvailabilityRulePatch{
		EndTime:  ptr.Ptr(types.TimeString("13:00")),
		IsActive: ptr.Ptr(false),
	}.Apply(original)

	assert.Equal(t, types.TimeString("09:00"), merged.StartTime)
	assert.Equal(t, types.TimeString("13:00"), merged.EndTime)
	assert.False(t, merged.IsActive)
	assert.True(t, original.IsActive, "original must not be mutated")
}

func TestFindConflict(t *testing.T) {
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	appointments := []*Appointment{
		{ID: 1, StartAt: base.Add(time.Hour), DurationMinutes: 60, Status: StatusScheduled},    // 10:00-11:00
		{ID: 2, StartAt: base.Add(3 * time.Hour), DurationMinutes: 60, Status: StatusCancelled}, // 12:00-13:00
	}

	t.Run("90 minutes from 09:00 hits the 10:00 session", func(t *testing.T) {
		conflict := FindConflict(appointments, base, 90, 0)
		if assert.NotNil(t, conflict) {
			assert.Equal(t, int64(1), conflict.ID)
		}
	})

	t.Run("60 minutes from 09:00 ends where the next begins", func(t *testing.T) {
		assert.Nil(t, FindConflict(appointments, base, 60, 0))
	})

	t.Run("cancelled appointments do not block", func(t *testing.T) {
		assert.Nil(t, FindConflict(appointments, base.Add(3*time.Hour), 60, 0))
	})

	t.Run("moving appointment ignores itself", func(t *testing.T) {
		assert.Nil(t, FindConflict(appointments, base.Add(90*time.Minute), 60, 1))
	})
}

func TestFindPairwiseOverlap(t *testing.T) {
	t.Run("first collision in input order", func(t *testing.T) {
		rules := []*AvailabilityRule{
			rule(0, 1, "09:00", "12:00", true),
			rule(0, 2, "09:00", "12:00", true),
			rule(0, 2, "11:00", "13:00", true),
			rule(0, 1, "11:30", "14:00", true),
		}
		i, j, ok := FindPairwiseOverlap(rules)
		assert.True(t, ok)
		assert.Equal(t, 0, i)
		assert.Equal(t, 3, j)
	})

	t.Run("back-to-back windows", func(t *testing.T) {
		rules := []*AvailabilityRule{
			rule(0, 1, "09:00", "12:00", true),
			rule(0, 1, "12:00", "17:00", true),
		}
		_, _, ok := FindPairwiseOverlap(rules)
		assert.False(t, ok)
	})

	t.Run("inactive rules do not collide", func(t *testing.T) {
		rules := []*AvailabilityRule{
			rule(0, 1, "09:00", "12:00", true),
			rule(0, 1, "10:00", "11:00", false),
		}
		_, _, ok := FindPairwiseOverlap(rules)
		assert.False(t, ok)
	})
}
