package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-TherapyBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string          `json:"date"`
	TherapistID int64           `json:"therapistId"`
	Slots       []AvailableSlot `json:"slots"`
}

// AvailableSlot модель 30-минутного слота
type AvailableSlot struct {
	ID        string    `json:"id"`
	Time      string    `json:"time"`
	StartAt   time.Time `json:"startAt"`
	Available bool      `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ID:        slot.ID,
			Time:      slot.Time.String(),
			StartAt:   slot.StartAt,
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		TherapistID: resp.TherapistID,
		Slots:       slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(therapistID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		TherapistID: therapistID,
		Date:        date,
	}, nil
}
