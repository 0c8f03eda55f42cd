package date

import (
	"time"

	"github.com/pkg/errors"
)

// DayFormat is the wire format for plain calendar dates
const DayFormat = "2006-01-02"

// ClockFormat is the wire format for times of day
const ClockFormat = "15:04"

// ErrInvalidDate is the error for unparsable or out of range date arguments
var ErrInvalidDate = errors.New("invalid date")

// ParseDay parses a plain calendar date and normalizes it to midnight
func ParseDay(value string) (time.Time, error) {
	parsed, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "could not parse %q as a date", value)
	}

	return parsed, nil
}

// DayOf strips the clock from a time, keeping only the calendar date
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay checks whether two times fall on the same calendar date
func SameDay(t1 time.Time, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CombineDayAndClock builds a full time from a calendar date and a "HH:MM" clock string
func CombineDayAndClock(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse(ClockFormat, clock)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "could not parse %q as a time of day", clock)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
