package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat возвращается, если строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrInvalidInterval возвращается, если начало интервала не раньше его конца
	ErrInvalidInterval = errors.New("invalid time interval: start must be before end")

	// ErrTimeOverflow возвращается, если результат арифметики выходит за пределы суток
	ErrTimeOverflow = errors.New("time is out of day range")
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

var timeStringPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// TimeString время суток в формате HH:MM (24 часа), без даты и часового пояса.
// Все сравнения выполняются с точностью до минуты.
type TimeString string

// NewTimeString создает TimeString из часов и минут переданного времени
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromString парсит и нормализует строку HH:MM ("9:05" -> "09:05")
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := ParseMinutes(s)
	if err != nil {
		return "", err
	}
	return FromMinutes(minutes)
}

// FromMinutes создает TimeString из количества минут от начала суток
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// ParseMinutes переводит строку HH:MM в количество минут от начала суток
func ParseMinutes(s string) (int, error) {
	if !timeStringPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	parts := strings.SplitN(s, ":", 2)
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	return hours*60 + minutes, nil
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	_, err := ParseMinutes(string(t))
	return err
}

// Minutes возвращает количество минут от начала суток
func (t TimeString) Minutes() (int, error) {
	return ParseMinutes(string(t))
}

// MustMinutes как Minutes, но для заведомо валидных значений (невалидное даёт -1)
func (t TimeString) MustMinutes() int {
	m, err := t.Minutes()
	if err != nil {
		return -1
	}
	return m
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// AddMinutes сдвигает время на n минут; выход за пределы суток является ошибкой
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.MustMinutes() < other.MustMinutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.MustMinutes() > other.MustMinutes()
}

// On возвращает момент времени в указанную дату в часовом поясе loc
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	m := t.MustMinutes()
	y, mo, d := date.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc)
}

// Scan реализует sql.Scanner. PostgreSQL отдаёт TIME как "HH:MM:SS".
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case nil:
		*t = ""
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeFormat, src)
	}

	if len(raw) > 5 && strings.Count(raw, ":") == 2 {
		raw = raw[:strings.LastIndex(raw, ":")]
	}

	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
