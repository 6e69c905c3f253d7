package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или пользователь не участник записи и не администратор
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInvalidState возвращается, когда запись уже не в статусе SCHEDULED
	ErrInvalidState = errors.New("reschedule_appointment: appointment cannot be rescheduled in its current status")

	// ErrTooLateToReschedule возвращается, когда до начала сессии меньше 2 часов
	ErrTooLateToReschedule = errors.New("reschedule_appointment: too late to reschedule")

	// ErrStartInPast возвращается, когда новое время уже прошло
	ErrStartInPast = errors.New("reschedule_appointment: new start time is in the past")

	// ErrOutsideAvailability возвращается, когда новый интервал вне окон доступности
	ErrOutsideAvailability = errors.New("reschedule_appointment: requested time is outside therapist availability")

	// ErrSlotNotAvailable возвращается, когда новый интервал пересекается с другой сессией
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is not available")

	// ErrTherapistBusy возвращается, когда расписание терапевта сейчас меняет другой запрос
	ErrTherapistBusy = errors.New("reschedule_appointment: therapist schedule is being updated, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
