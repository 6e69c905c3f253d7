package types

import "fmt"

// Overlaps проверяет пересечение полуоткрытых интервалов [startA, endA) и [startB, endB).
// Интервалы, которые только соприкасаются границами, не пересекаются.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

// OverlapsTimeStrings то же, что Overlaps, для значений HH:MM
func OverlapsTimeStrings(startA, endA, startB, endB TimeString) bool {
	return Overlaps(startA.MustMinutes(), endA.MustMinutes(), startB.MustMinutes(), endB.MustMinutes())
}

// IntervalLengthMinutes возвращает длину интервала [start, end) в минутах
func IntervalLengthMinutes(start, end TimeString) (int, error) {
	s, err := start.Minutes()
	if err != nil {
		return 0, err
	}
	e, err := end.Minutes()
	if err != nil {
		return 0, err
	}
	if s >= e {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return e - s, nil
}

// ValidateInterval проверяет формат обеих границ и что start < end
func ValidateInterval(start, end TimeString) error {
	_, err := IntervalLengthMinutes(start, end)
	return err
}
