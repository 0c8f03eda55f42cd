package habits

import (
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
)

// StreakTracker computes completion streaks from a habit's full history.
// It always recomputes from scratch, there is no cached counter that could
// drift from the completion records.
type StreakTracker struct {
	Evaluator *RecurrenceEvaluator
}

// ComputeStreaks walks the habit's due dates backwards from asOf and counts
// consecutive completed ones. Non due dates neither extend nor break a run.
// The asOf date itself being due but not yet completed is excluded instead
// of breaking the current streak.
func (t *StreakTracker) ComputeStreaks(habit *Habit, completions []*CompletionRecord, asOf time.Time) Streaks {
	completed := make(map[string]bool, len(completions))
	for _, record := range completions {
		if record.Completed {
			completed[record.Date.Format(date.DayFormat)] = true
		}
	}

	day := date.DayOf(asOf)
	if habit.EndDate != nil && day.After(date.DayOf(*habit.EndDate)) {
		day = date.DayOf(*habit.EndDate)
	}
	startDate := date.DayOf(habit.StartDate)

	streaks := Streaks{}
	run := 0
	currentSet := false
	firstDueDay := true

	for ; !day.Before(startDate); day = day.AddDate(0, 0, -1) {
		if !t.Evaluator.IsDue(habit, day) {
			continue
		}

		if completed[day.Format(date.DayFormat)] {
			run++
			if run > streaks.Longest {
				streaks.Longest = run
			}
		} else {
			if !firstDueDay || !date.SameDay(day, date.DayOf(asOf)) {
				if !currentSet {
					streaks.Current = run
					currentSet = true
				}
				run = 0
			}
		}

		firstDueDay = false
	}

	if !currentSet {
		streaks.Current = run
	}

	return streaks
}
