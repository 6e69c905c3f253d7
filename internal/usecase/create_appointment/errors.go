package create_appointment

import "errors"

var (
	// ErrTherapistNotFound возвращается, когда терапевт не найден
	ErrTherapistNotFound = errors.New("create_appointment: therapist not found")

	// ErrTherapistInactive возвращается, когда терапевт не принимает записи
	ErrTherapistInactive = errors.New("create_appointment: therapist is not accepting appointments")

	// ErrAccessDenied возвращается, когда записаться пытается не клиент
	ErrAccessDenied = errors.New("create_appointment: only clients can book appointments")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrStartInPast возвращается, когда время начала уже прошло
	ErrStartInPast = errors.New("create_appointment: start time is in the past")

	// ErrOutsideAvailability возвращается, когда интервал не помещается в окно доступности
	ErrOutsideAvailability = errors.New("create_appointment: requested time is outside therapist availability")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с другой сессией
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrTherapistBusy возвращается, когда расписание терапевта сейчас меняет другой запрос
	ErrTherapistBusy = errors.New("create_appointment: therapist schedule is being updated, retry later")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
