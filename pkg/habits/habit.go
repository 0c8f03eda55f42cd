package habits

import (
	"fmt"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency values a habit schedule can have
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Status values a habit can have
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Weekday is a closed weekday tag as used in weekly schedules
type Weekday string

// The weekday tags a weekly schedule can contain
const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// WeekdayOf returns the weekday tag of a time
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String()[:3])
}

// categoryColors maps a category tag onto its presentation color.
// Colors live only here so the scheduling core never stores display state.
var categoryColors = map[string]string{
	"health":     "#2e7d32",
	"learning":   "#1565c0",
	"work":       "#6a1b9a",
	"personal":   "#ef6c00",
	"wellbeing":  "#00838f",
	"creativity": "#ad1457",
}

// CategoryColor resolves the presentation color for a category tag
func CategoryColor(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return "#546e7a"
}

// Habit is the model for a recurring habit definition
type Habit struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"-" bson:"userId"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`

	Name     string `json:"name" bson:"name" validate:"required"`
	Category string `json:"category" bson:"category"`

	Frequency   string     `json:"frequency" bson:"frequency" validate:"required,oneof=daily weekly monthly"`
	DaysOfWeek  []Weekday  `json:"daysOfWeek" bson:"daysOfWeek" validate:"dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	DaysOfMonth []int      `json:"daysOfMonth" bson:"daysOfMonth" validate:"dive,min=1,max=31"`
	StartDate   time.Time  `json:"startDate" bson:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`

	StartTime string `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty" bson:"endTime,omitempty"`

	Status string `json:"status" bson:"status" validate:"required,oneof=active archived"`
}

// ValidateSchedule checks the invariants the validator tags can't express:
// day-sets must be empty for frequencies that don't use them, the end date
// must not precede the start date and a set time window must be ordered.
func (h *Habit) ValidateSchedule() error {
	if h.Frequency != FrequencyWeekly && len(h.DaysOfWeek) > 0 {
		return fmt.Errorf("daysOfWeek is only allowed for weekly habits")
	}

	if h.Frequency != FrequencyMonthly && len(h.DaysOfMonth) > 0 {
		return fmt.Errorf("daysOfMonth is only allowed for monthly habits")
	}

	if h.EndDate != nil && h.EndDate.Before(h.StartDate) {
		return fmt.Errorf("endDate must not be before startDate")
	}

	if (h.StartTime == "") != (h.EndTime == "") {
		return fmt.Errorf("startTime and endTime must be set together")
	}

	if h.StartTime != "" {
		start, err := time.Parse(date.ClockFormat, h.StartTime)
		if err != nil {
			return fmt.Errorf("startTime %q is not a valid time of day", h.StartTime)
		}

		end, err := time.Parse(date.ClockFormat, h.EndTime)
		if err != nil {
			return fmt.Errorf("endTime %q is not a valid time of day", h.EndTime)
		}

		if !start.Before(end) {
			return fmt.Errorf("startTime %s must be before endTime %s", h.StartTime, h.EndTime)
		}
	}

	return nil
}

// IsAllDay tells whether the habit has no time of day restriction.
// The full day window 00:00-23:59 counts as unrestricted and is suppressed.
func (h *Habit) IsAllDay() bool {
	if h.StartTime == "" && h.EndTime == "" {
		return true
	}
	return h.StartTime == "00:00" && h.EndTime == "23:59"
}

// TimespanOn places the habit's time of day window onto a concrete date
func (h *Habit) TimespanOn(day time.Time) (date.Timespan, error) {
	startTime := h.StartTime
	endTime := h.EndTime
	if h.IsAllDay() {
		startTime = "00:00"
		endTime = "23:59"
	}

	start, err := date.CombineDayAndClock(day, startTime)
	if err != nil {
		return date.Timespan{}, err
	}

	end, err := date.CombineDayAndClock(day, endTime)
	if err != nil {
		return date.Timespan{}, err
	}

	return date.Timespan{Start: start, End: end}, nil
}

// CompletionRecord marks whether a habit was performed on a date.
// There is at most one record per (habit, date).
type CompletionRecord struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	HabitID        primitive.ObjectID `json:"habitId" bson:"habitId"`
	UserID         primitive.ObjectID `json:"-" bson:"userId"`
	Date           time.Time          `json:"date" bson:"date"`
	Completed      bool               `json:"completed" bson:"completed"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
}

// Streaks holds the two streak counters of a habit
type Streaks struct {
	Current int `json:"current" bson:"current"`
	Longest int `json:"longest" bson:"longest"`
}
