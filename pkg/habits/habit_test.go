package habits

import (
	"fmt"
	"testing"
)

func TestHabit_ValidateSchedule(t *testing.T) {
	t.Parallel()

	var scheduleTests = []struct {
		habit   Habit
		wantErr bool
	}{
		{
			// Case plain daily habit
			Habit{Frequency: FrequencyDaily, StartDate: day(2023, 1, 1)},
			false,
		},
		{
			// Case weekly habit with weekdays
			Habit{Frequency: FrequencyWeekly, DaysOfWeek: []Weekday{Monday}, StartDate: day(2023, 1, 1)},
			false,
		},
		{
			// Case daily habit must not carry weekdays
			Habit{Frequency: FrequencyDaily, DaysOfWeek: []Weekday{Monday}, StartDate: day(2023, 1, 1)},
			true,
		},
		{
			// Case weekly habit must not carry month days
			Habit{Frequency: FrequencyWeekly, DaysOfWeek: []Weekday{Monday}, DaysOfMonth: []int{1}, StartDate: day(2023, 1, 1)},
			true,
		},
		{
			// Case end date before start date
			Habit{Frequency: FrequencyDaily, StartDate: day(2023, 2, 1), EndDate: timePtr(day(2023, 1, 1))},
			true,
		},
		{
			// Case time window needs both ends
			Habit{Frequency: FrequencyDaily, StartDate: day(2023, 1, 1), StartTime: "18:00"},
			true,
		},
		{
			// Case inverted time window
			Habit{Frequency: FrequencyDaily, StartDate: day(2023, 1, 1), StartTime: "19:00", EndTime: "18:00"},
			true,
		},
		{
			// Case valid time window
			Habit{Frequency: FrequencyDaily, StartDate: day(2023, 1, 1), StartTime: "18:00", EndTime: "18:30"},
			false,
		},
	}

	for index, tt := range scheduleTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			err := tt.habit.ValidateSchedule()
			if (err != nil) != tt.wantErr {
				t.Errorf("got error %v, want error %t", err, tt.wantErr)
			}
		})
	}
}

func TestHabit_IsAllDay(t *testing.T) {
	t.Parallel()

	unrestricted := Habit{}
	if !unrestricted.IsAllDay() {
		t.Errorf("habit without a time window should be all day")
	}

	fullDay := Habit{StartTime: "00:00", EndTime: "23:59"}
	if !fullDay.IsAllDay() {
		t.Errorf("the full day window should be treated as no restriction")
	}

	timed := Habit{StartTime: "18:00", EndTime: "18:30"}
	if timed.IsAllDay() {
		t.Errorf("a timed habit should not be all day")
	}
}
