package habits

import (
	"fmt"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// RecurrenceEvaluator decides whether a habit is due on a calendar date.
// It is a pure function of its arguments and safe for concurrent use.
type RecurrenceEvaluator struct {
	Logger logger.Interface
}

// IsDue tells whether the habit is scheduled on the given calendar date.
// The time of day window of a habit never influences this, it only
// restricts when during a due day the habit is displayed.
func (e *RecurrenceEvaluator) IsDue(habit *Habit, day time.Time) bool {
	if habit.Status == StatusArchived {
		return false
	}

	day = date.DayOf(day)

	if day.Before(date.DayOf(habit.StartDate)) {
		return false
	}

	if habit.EndDate != nil && day.After(date.DayOf(*habit.EndDate)) {
		return false
	}

	switch habit.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		if len(habit.DaysOfWeek) == 0 {
			e.warnEmptySchedule(habit, "daysOfWeek")
			return false
		}

		weekday := WeekdayOf(day)
		for _, tag := range habit.DaysOfWeek {
			if tag == weekday {
				return true
			}
		}
		return false
	case FrequencyMonthly:
		if len(habit.DaysOfMonth) == 0 {
			e.warnEmptySchedule(habit, "daysOfMonth")
			return false
		}

		// Only the plain day number counts. A habit on the 31st simply
		// skips months that don't have one, there is no rollover.
		for _, dayOfMonth := range habit.DaysOfMonth {
			if dayOfMonth == day.Day() {
				return true
			}
		}
		return false
	}

	return false
}

func (e *RecurrenceEvaluator) warnEmptySchedule(habit *Habit, field string) {
	if e.Logger == nil {
		return
	}

	e.Logger.Warning(fmt.Sprintf("habit %s has frequency %s but an empty %s", habit.ID.Hex(), habit.Frequency, field), nil)
}
