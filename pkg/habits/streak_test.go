package habits

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func completionsFor(habit *Habit, days ...time.Time) []*CompletionRecord {
	var records []*CompletionRecord
	for _, d := range days {
		records = append(records, &CompletionRecord{
			HabitID:   habit.ID,
			Date:      d,
			Completed: true,
		})
	}
	return records
}

func TestStreakTracker_ComputeStreaks(t *testing.T) {
	t.Parallel()

	readingHabit := &Habit{
		Name:      "Leer 15 minutos",
		Frequency: FrequencyDaily,
		StartDate: day(2023, 1, 1),
		Status:    StatusActive,
	}

	weekendHabit := &Habit{
		Name:       "Salir a correr",
		Frequency:  FrequencyWeekly,
		DaysOfWeek: []Weekday{Saturday, Sunday},
		StartDate:  day(2023, 1, 1),
		Status:     StatusActive,
	}

	var streakTests = []struct {
		habit       *Habit
		completions []*CompletionRecord
		asOf        time.Time
		out         Streaks
	}{
		{
			// Case daily habit completed on Jan 1-4, as of Jan 4
			readingHabit,
			completionsFor(readingHabit, day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4)),
			day(2023, 1, 4),
			Streaks{Current: 4, Longest: 4},
		},
		{
			// Case missed Jan 5 resets the chain, Jan 6-7 completed
			readingHabit,
			completionsFor(readingHabit,
				day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4),
				day(2023, 1, 6), day(2023, 1, 7)),
			day(2023, 1, 7),
			Streaks{Current: 2, Longest: 4},
		},
		{
			// Case a later completion does not heal the missed day
			readingHabit,
			completionsFor(readingHabit,
				day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4),
				day(2023, 1, 6)),
			day(2023, 1, 6),
			Streaks{Current: 1, Longest: 4},
		},
		{
			// Case today due but not yet completed is excluded, not a break
			readingHabit,
			completionsFor(readingHabit, day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4)),
			day(2023, 1, 5),
			Streaks{Current: 4, Longest: 4},
		},
		{
			// Case yesterday missed and today not completed
			readingHabit,
			completionsFor(readingHabit, day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4)),
			day(2023, 1, 6),
			Streaks{Current: 0, Longest: 4},
		},
		{
			// Case no completions at all
			readingHabit,
			nil,
			day(2023, 1, 10),
			Streaks{Current: 0, Longest: 0},
		},
		{
			// Case non due weekdays neither extend nor break a weekend streak
			weekendHabit,
			completionsFor(weekendHabit,
				day(2023, 1, 7), day(2023, 1, 8), // Sat + Sun
				day(2023, 1, 14), day(2023, 1, 15)), // Sat + Sun
			day(2023, 1, 18), // a Wednesday
			Streaks{Current: 4, Longest: 4},
		},
		{
			// Case a missed Saturday breaks the weekend streak
			weekendHabit,
			completionsFor(weekendHabit,
				day(2023, 1, 7), day(2023, 1, 8),
				day(2023, 1, 15)), // Jan 14 missed
			day(2023, 1, 15),
			Streaks{Current: 1, Longest: 2},
		},
		{
			// Case a record with completed=false counts as missed
			readingHabit,
			append(completionsFor(readingHabit, day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 4)),
				&CompletionRecord{HabitID: readingHabit.ID, Date: day(2023, 1, 3), Completed: false}),
			day(2023, 1, 4),
			Streaks{Current: 1, Longest: 2},
		},
	}

	tracker := &StreakTracker{Evaluator: &RecurrenceEvaluator{}}

	for index, tt := range streakTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got := tracker.ComputeStreaks(tt.habit, tt.completions, tt.asOf)
			if !reflect.DeepEqual(got, tt.out) {
				t.Errorf("got %+v, want %+v", got, tt.out)
			}
		})
	}
}

// Removing and re-adding the same completion must land on the same counts as
// never having removed it, since every read recomputes from full history.
func TestStreakTracker_RecomputationIsIdempotent(t *testing.T) {
	t.Parallel()

	habit := &Habit{
		Name:      "Meditar",
		Frequency: FrequencyDaily,
		StartDate: day(2023, 1, 1),
		Status:    StatusActive,
	}

	completions := completionsFor(habit,
		day(2023, 1, 1), day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4), day(2023, 1, 5))
	asOf := day(2023, 1, 5)

	tracker := &StreakTracker{Evaluator: &RecurrenceEvaluator{}}
	before := tracker.ComputeStreaks(habit, completions, asOf)

	// Flip Jan 3 to uncompleted and back again.
	completions[2].Completed = false
	interim := tracker.ComputeStreaks(habit, completions, asOf)
	if interim.Current != 2 || interim.Longest != 2 {
		t.Errorf("after removal got %+v, want {Current:2 Longest:2}", interim)
	}

	completions[2].Completed = true
	after := tracker.ComputeStreaks(habit, completions, asOf)

	if !reflect.DeepEqual(before, after) {
		t.Errorf("got %+v after re-adding, want %+v", after, before)
	}
}
