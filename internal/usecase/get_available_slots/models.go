package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	TherapistID int64
	Date        time.Time // календарная дата, время игнорируется
}

// Response модель ответа со списком слотов
type Response struct {
	Date        time.Time
	TherapistID int64
	Slots       []Slot
}

// Slot модель 30-минутного слота
type Slot struct {
	ID        string           // "{date}-{HH:MM}"
	Time      types.TimeString // время начала
	StartAt   time.Time        // начало в часовом поясе расписания
	Available bool
}
