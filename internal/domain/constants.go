package domain

// Slot grid
const (
	// SlotStepMinutes fixed width of a bookable tile, independent of appointment duration
	SlotStepMinutes = 30
)

// Appointment durations
const (
	DefaultAppointmentDurationMinutes = 60
	MaxNotesLength                    = 1000
	MaxCancellationReasonLength       = 500
	DefaultCancellationReason         = "unspecified"
)

// AllowedDurations appointment lengths a client may request
var AllowedDurations = []int{60, 90, 120}

// Day-of-week bounds (0 = Sunday ... 6 = Saturday, same as time.Weekday)
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 6
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// IsAllowedDuration reports whether minutes is one of AllowedDurations
func IsAllowedDuration(minutes int) bool {
	for _, d := range AllowedDurations {
		if d == minutes {
			return true
		}
	}
	return false
}
