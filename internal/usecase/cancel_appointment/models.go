package cancel_appointment

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TherapyBooking/internal/domain"
)

// Request модель запроса на отмену записи
type Request struct {
	Actor           domain.Actor
	AppointmentID   int64
	Reason          string // пустая причина сохраняется как "unspecified"
	RefundRequested bool
}

// Response модель ответа с отменённой записью и расчётом возврата
type Response struct {
	Appointment *domain.Appointment
	RefundInfo  *RefundInfo // nil, если оплаченного платежа нет
	Policy      PolicyTable
}

// RefundInfo результат применения политики отмены к оплаченной сумме
type RefundInfo struct {
	Tier            domain.PolicyTier
	HoursUntil      float64
	Eligible        bool
	RefundAmount    decimal.Decimal
	CancellationFee decimal.Decimal
	Currency        string
	Refunded        bool // платёж переведён в REFUNDED
	PaymentStatus   domain.PaymentStatus
}

// PolicyTable описание условий возврата для клиента
type PolicyTable struct {
	FullRefund    string
	PartialRefund string
	NoRefund      string
}

// CancellationPolicy таблица возвратов, отдаваемая вместе с результатом отмены
var CancellationPolicy = PolicyTable{
	FullRefund:    "≥24h",
	PartialRefund: "2-24h (50%)",
	NoRefund:      "<2h",
}
