package habits

import (
	"fmt"
	"testing"
	"time"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestRecurrenceEvaluator_IsDue(t *testing.T) {
	t.Parallel()

	dailyBounded := &Habit{
		Name:      "Leer 15 minutos",
		Frequency: FrequencyDaily,
		StartDate: day(2023, 1, 10),
		EndDate:   timePtr(day(2023, 1, 20)),
		Status:    StatusActive,
	}

	weekendHabit := &Habit{
		Name:       "Salir a correr",
		Frequency:  FrequencyWeekly,
		DaysOfWeek: []Weekday{Saturday, Sunday},
		StartDate:  day(2023, 1, 1),
		Status:     StatusActive,
	}

	var isDueTests = []struct {
		habit *Habit
		day   time.Time
		out   bool
	}{
		{
			// Case daily habit inside its window
			dailyBounded,
			day(2023, 1, 10),
			true,
		},
		{
			// Case daily habit on the last day of its window
			dailyBounded,
			day(2023, 1, 20),
			true,
		},
		{
			// Case daily habit before its start date
			dailyBounded,
			day(2023, 1, 9),
			false,
		},
		{
			// Case daily habit after its end date
			dailyBounded,
			day(2023, 1, 21),
			false,
		},
		{
			// Case weekend habit on a Wednesday
			weekendHabit,
			day(2023, 7, 12),
			false,
		},
		{
			// Case weekend habit on a Saturday
			weekendHabit,
			day(2023, 7, 15),
			true,
		},
		{
			// Case weekly habit on exactly its configured weekdays
			&Habit{
				Frequency:  FrequencyWeekly,
				DaysOfWeek: []Weekday{Monday, Wednesday},
				StartDate:  day(2023, 1, 1),
				Status:     StatusActive,
			},
			day(2023, 1, 2), // a Monday
			true,
		},
		{
			// Case weekly habit on a weekday outside its set
			&Habit{
				Frequency:  FrequencyWeekly,
				DaysOfWeek: []Weekday{Monday, Wednesday},
				StartDate:  day(2023, 1, 1),
				Status:     StatusActive,
			},
			day(2023, 1, 3), // a Tuesday
			false,
		},
		{
			// Case weekly habit with an empty day set is never due
			&Habit{
				Frequency: FrequencyWeekly,
				StartDate: day(2023, 1, 1),
				Status:    StatusActive,
			},
			day(2023, 1, 2),
			false,
		},
		{
			// Case monthly habit on a configured day number
			&Habit{
				Frequency:   FrequencyMonthly,
				DaysOfMonth: []int{1, 15},
				StartDate:   day(2023, 1, 1),
				Status:      StatusActive,
			},
			day(2023, 2, 15),
			true,
		},
		{
			// Case monthly habit on an unconfigured day number
			&Habit{
				Frequency:   FrequencyMonthly,
				DaysOfMonth: []int{1, 15},
				StartDate:   day(2023, 1, 1),
				Status:      StatusActive,
			},
			day(2023, 2, 14),
			false,
		},
		{
			// Case monthly habit on the 31st skips February entirely
			&Habit{
				Frequency:   FrequencyMonthly,
				DaysOfMonth: []int{31},
				StartDate:   day(2023, 1, 1),
				Status:      StatusActive,
			},
			day(2023, 2, 28),
			false,
		},
		{
			// Case archived habit is never due
			&Habit{
				Frequency: FrequencyDaily,
				StartDate: day(2023, 1, 1),
				Status:    StatusArchived,
			},
			day(2023, 1, 2),
			false,
		},
		{
			// Case time of day window does not influence dueness
			&Habit{
				Frequency: FrequencyDaily,
				StartDate: day(2023, 1, 1),
				StartTime: "18:00",
				EndTime:   "18:30",
				Status:    StatusActive,
			},
			day(2023, 1, 2),
			true,
		},
	}

	evaluator := &RecurrenceEvaluator{}

	for index, tt := range isDueTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got := evaluator.IsDue(tt.habit, tt.day)
			if got != tt.out {
				t.Errorf("got %t, want %t", got, tt.out)
			}
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	t.Parallel()

	if WeekdayOf(day(2023, 7, 15)) != Saturday {
		t.Errorf("2023-07-15 should be a Saturday")
	}

	if WeekdayOf(day(2023, 7, 12)) != Wednesday {
		t.Errorf("2023-07-12 should be a Wednesday")
	}
}
