package agenda

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/events"
	"github.com/ordena-app/ordena-backend/pkg/habits"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/users"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Entry types an agenda can contain
const (
	EntryTypeHabit = "habit"
	EntryTypeEvent = "event"
	EntryTypeFree  = "free"
)

// The working window applied when a user has not configured one
const (
	DefaultWorkingWindowStart = "09:00"
	DefaultWorkingWindowEnd   = "19:00"
)

// HabitEntry annotates a due habit with its completion state for the date
type HabitEntry struct {
	Habit          *habits.Habit  `json:"habit"`
	CategoryColor  string         `json:"categoryColor"`
	CompletedToday bool           `json:"completedToday"`
	Streaks        habits.Streaks `json:"streaks"`
}

// Entry is one item of a day's agenda
type Entry struct {
	Type   string        `json:"type"`
	Title  string        `json:"title"`
	Date   date.Timespan `json:"date"`
	AllDay bool          `json:"allDay"`

	Habit     *HabitEntry     `json:"habit,omitempty"`
	Event     *events.Event   `json:"event,omitempty"`
	FreeBlock *date.FreeBlock `json:"freeBlock,omitempty"`
}

// Service merges due habits, calendar events and free blocks into one
// chronologically ordered view of a date
type Service struct {
	UserRepository       users.UserRepositoryInterface
	UserCache            UserDataCacheInterface
	HabitRepository      habits.HabitRepositoryInterface
	CompletionRepository habits.CompletionRepositoryInterface
	EventRepository      events.EventRepositoryInterface
	Evaluator            *habits.RecurrenceEvaluator
	Tracker              *habits.StreakTracker
	Logger               logger.Interface
}

// BuildAgenda builds the agenda of one user for one calendar date.
// A single broken habit or event is excluded instead of failing the whole
// agenda; an unusable working window configuration fails it entirely.
func (s *Service) BuildAgenda(ctx context.Context, userID string, day time.Time) ([]*Entry, error) {
	day = date.DayOf(day)

	var user *users.User
	var userHabits []*habits.Habit
	var userEvents []*events.Event

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		user, err = s.user(groupCtx, userID)
		if err != nil {
			s.Logger.Warning(fmt.Sprintf("could not load user %s for agenda", userID), err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		userHabits, err = s.HabitRepository.FindAll(groupCtx, userID, false)
		if err != nil {
			s.Logger.Warning(fmt.Sprintf("could not load habits of user %s", userID), err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		userEvents, err = s.EventRepository.FindForDay(groupCtx, userID, day)
		if err != nil {
			s.Logger.Warning(fmt.Sprintf("could not load events of user %s", userID), err)
		}
		return nil
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	window, err := s.workingWindow(user, day)
	if err != nil {
		return nil, err
	}

	entries := []*Entry{}

	for _, habit := range userHabits {
		if !s.Evaluator.IsDue(habit, day) {
			continue
		}

		entry, err := s.habitEntry(ctx, habit, day)
		if err != nil {
			s.Logger.Warning(fmt.Sprintf("excluding habit %s from agenda", habit.ID.Hex()), err)
			continue
		}

		entries = append(entries, entry)
	}

	busy := make([]date.Timespan, 0, len(userEvents))
	for _, event := range userEvents {
		if !event.Date.IsStartBeforeEnd() {
			s.Logger.Warning(fmt.Sprintf("excluding event %s with invalid timespan from agenda", event.ID.Hex()), nil)
			continue
		}

		busy = append(busy, event.Date)
		entries = append(entries, &Entry{
			Type:  EntryTypeEvent,
			Title: event.Title,
			Date:  event.Date,
			Event: event,
		})
	}

	for _, block := range date.ComputeFreeBlocks(busy, window, date.MinimumFreeBlockGap) {
		freeBlock := block
		entries = append(entries, &Entry{
			Type:      EntryTypeFree,
			Title:     "Free time",
			Date:      freeBlock.Timespan(),
			FreeBlock: &freeBlock,
		})
	}

	sortEntries(entries)

	return entries, nil
}

func (s *Service) habitEntry(ctx context.Context, habit *habits.Habit, day time.Time) (*Entry, error) {
	completions, err := s.CompletionRepository.FindAllForHabit(ctx, habit.ID)
	if err != nil {
		return nil, err
	}

	timespan, err := habit.TimespanOn(day)
	if err != nil {
		return nil, err
	}

	completedToday := false
	for _, record := range completions {
		if record.Completed && date.SameDay(record.Date, day) {
			completedToday = true
			break
		}
	}

	return &Entry{
		Type:   EntryTypeHabit,
		Title:  habit.Name,
		Date:   timespan,
		AllDay: habit.IsAllDay(),
		Habit: &HabitEntry{
			Habit:          habit,
			CategoryColor:  habits.CategoryColor(habit.Category),
			CompletedToday: completedToday,
			Streaks:        s.Tracker.ComputeStreaks(habit, completions, day),
		},
	}, nil
}

// user loads a user through the cache, falling back to the repository
func (s *Service) user(ctx context.Context, userID string) (*users.User, error) {
	entry, err := s.UserCache.Get(ctx, userID)
	if err == nil && entry.User != nil {
		return entry.User, nil
	}

	u, err := s.UserRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.UserCache.Add(ctx, userID, &UserDataCacheEntry{User: u})
	if err != nil {
		s.Logger.Warning(fmt.Sprintf("could not cache user %s", userID), err)
	}

	return u, nil
}

// workingWindow places the user's configured working window onto the date.
// No configuration at all falls back to the default window, a broken
// configuration is a hard error.
func (s *Service) workingWindow(user *users.User, day time.Time) (date.Timespan, error) {
	startClock := DefaultWorkingWindowStart
	endClock := DefaultWorkingWindowEnd

	if user != nil && (user.Settings.Agenda.WorkingWindowStart != "" || user.Settings.Agenda.WorkingWindowEnd != "") {
		startClock = user.Settings.Agenda.WorkingWindowStart
		endClock = user.Settings.Agenda.WorkingWindowEnd
	}

	start, err := date.CombineDayAndClock(day, startClock)
	if err != nil {
		return date.Timespan{}, errors.Wrapf(communication.ErrNoWorkingWindow, "start %q is not a valid time of day", startClock)
	}

	end, err := date.CombineDayAndClock(day, endClock)
	if err != nil {
		return date.Timespan{}, errors.Wrapf(communication.ErrNoWorkingWindow, "end %q is not a valid time of day", endClock)
	}

	window := date.Timespan{Start: start, End: end}
	if !window.IsStartBeforeEnd() || window.Duration() == 0 {
		return date.Timespan{}, errors.Wrapf(communication.ErrNoWorkingWindow, "window %s to %s is not ordered", startClock, endClock)
	}

	return window, nil
}

// sortEntries orders an agenda chronologically with all day entries first
func sortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AllDay != entries[j].AllDay {
			return entries[i].AllDay
		}

		return entries[i].Date.Start.Before(entries[j].Date.Start)
	})
}
