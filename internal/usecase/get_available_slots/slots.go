package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// generateSlots нарезает окна доступности на 30-минутные слоты.
// Слот эмитится, пока его начало строго меньше конца окна.
// Недоступен слот в прошлом (начало <= now) и слот, пересекающийся с запланированной сессией.
func generateSlots(
	rules []*domain.AvailabilityRule,
	appointments []*domain.Appointment,
	date time.Time,
	now time.Time,
	loc *time.Location,
) []Slot {
	ordered := make([]*domain.AvailabilityRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime.MustMinutes() < ordered[j].StartTime.MustMinutes()
	})

	step := time.Duration(domain.SlotStepMinutes) * time.Minute
	slots := make([]Slot, 0)

	for _, rule := range ordered {
		ruleEnd := rule.EndTime.MustMinutes()

		for minute := rule.StartTime.MustMinutes(); minute < ruleEnd; minute += domain.SlotStepMinutes {
			// minute < ruleEnd <= 23:59, поэтому FromMinutes не падает
			start, _ := types.FromMinutes(minute)
			startAt := start.On(date, loc)

			available := startAt.After(now) && !occupied(appointments, startAt, startAt.Add(step))

			slots = append(slots, Slot{
				ID:        domain.SlotID(date, start),
				Time:      start,
				StartAt:   startAt,
				Available: available,
			})
		}
	}

	return slots
}

// occupied проверяет пересечение [start, end) с любой запланированной сессией
func occupied(appointments []*domain.Appointment, start, end time.Time) bool {
	for _, apt := range appointments {
		if apt.IsScheduled() && apt.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// dayWindow возвращает границы календарного дня [00:00, 00:00 следующего дня) в loc
func dayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
