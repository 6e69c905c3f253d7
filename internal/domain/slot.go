package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// Slot is a fixed-width bookable tile offered as a candidate start time
type Slot struct {
	ID        string // "{date}-{HH:MM}"
	StartTime types.TimeString
	StartAt   time.Time
	Available bool
}

// SlotID builds the slot identity from its date and start time
func SlotID(date time.Time, start types.TimeString) string {
	return fmt.Sprintf("%s-%s", date.Format(DateFormat), start)
}

// MinuteOfDay minutes since midnight of t in its own location
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
