package payments

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платёж не найден
	ErrPaymentNotFound = errors.New("payments: payment not found")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("payments: appointment not found")

	// ErrPaymentExists возвращается, если у записи уже есть платёж
	ErrPaymentExists = errors.New("payments: payment already exists")

	// ErrAccessDenied возвращается при отсутствии прав
	ErrAccessDenied = errors.New("payments: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrInvalidState возвращается, когда запись или платёж в неподходящем статусе
	ErrInvalidState = errors.New("payments: invalid state")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
