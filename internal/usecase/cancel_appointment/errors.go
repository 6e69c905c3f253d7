package cancel_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или пользователь не участник записи и не администратор
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_appointment: invalid input data")

	// ErrInvalidState возвращается, когда запись уже не в статусе SCHEDULED
	ErrInvalidState = errors.New("cancel_appointment: appointment cannot be cancelled in its current status")

	// ErrInternal возвращается при внутренних ошибках usecase; изменения откатываются целиком
	ErrInternal = errors.New("cancel_appointment: internal error")
)
