package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/events"
	"github.com/ordena-app/ordena-backend/pkg/habits"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/users"
	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func at(d time.Time, hour int, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

type failingCompletionRepository struct {
	*habits.MockCompletionRepository
	failFor primitive.ObjectID
}

func (r *failingCompletionRepository) FindAllForHabit(ctx context.Context, habitID primitive.ObjectID) ([]*habits.CompletionRecord, error) {
	if habitID == r.failFor {
		return nil, errors.New("completion storage unavailable")
	}
	return r.MockCompletionRepository.FindAllForHabit(ctx, habitID)
}

func newTestService(user *users.User) (*Service, *habits.MockHabitRepository, *habits.MockCompletionRepository, *events.MockEventRepository) {
	userRepository := &users.MockUserRepository{}
	if user != nil {
		userRepository.Users = append(userRepository.Users, user)
	}

	habitRepository := &habits.MockHabitRepository{}
	completionRepository := &habits.MockCompletionRepository{}
	eventRepository := &events.MockEventRepository{}

	userCache, _ := NewUserCacheMemory()

	evaluator := &habits.RecurrenceEvaluator{Logger: logger.Logger{}}

	service := &Service{
		UserRepository:       userRepository,
		UserCache:            userCache,
		HabitRepository:      habitRepository,
		CompletionRepository: completionRepository,
		EventRepository:      eventRepository,
		Evaluator:            evaluator,
		Tracker:              &habits.StreakTracker{Evaluator: evaluator},
		Logger:               logger.Logger{},
	}

	return service, habitRepository, completionRepository, eventRepository
}

func TestService_BuildAgenda_Ordering(t *testing.T) {
	t.Parallel()

	user := &users.User{ID: primitive.NewObjectID()}
	service, habitRepository, completionRepository, eventRepository := newTestService(user)

	agendaDay := day(2023, 1, 4)

	readingHabit := &habits.Habit{
		UserID:    user.ID,
		Name:      "Leer 15 minutos",
		Frequency: habits.FrequencyDaily,
		StartDate: day(2023, 1, 1),
		Status:    habits.StatusActive,
	}
	eveningHabit := &habits.Habit{
		UserID:    user.ID,
		Name:      "Meditar",
		Frequency: habits.FrequencyDaily,
		StartDate: day(2023, 1, 1),
		StartTime: "18:00",
		EndTime:   "18:30",
		Status:    habits.StatusActive,
	}
	_ = habitRepository.Add(context.Background(), readingHabit)
	_ = habitRepository.Add(context.Background(), eveningHabit)

	_, _ = completionRepository.SetCompletion(context.Background(), readingHabit.ID, user.ID, agendaDay, true)

	_ = eventRepository.Add(context.Background(), &events.Event{
		UserID: user.ID,
		Title:  "Standup",
		Date:   date.Timespan{Start: at(agendaDay, 10, 0), End: at(agendaDay, 11, 30)},
	})
	_ = eventRepository.Add(context.Background(), &events.Event{
		UserID: user.ID,
		Title:  "Lunch",
		Date:   date.Timespan{Start: at(agendaDay, 12, 30), End: at(agendaDay, 13, 0)},
	})

	entries, err := service.BuildAgenda(context.Background(), user.ID.Hex(), agendaDay)
	if err != nil {
		t.Fatalf("got error %v, want none", err)
	}

	var got []string
	for _, entry := range entries {
		got = append(got, entry.Type+" "+entry.Title)
	}

	want := []string{
		"habit Leer 15 minutos",
		"free Free time",
		"event Standup",
		"free Free time",
		"event Lunch",
		"free Free time",
		"habit Meditar",
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, got[i], want[i])
		}
	}

	// The default window applies, so the free blocks match 09:00-10:00,
	// 11:30-12:30 and 13:00-19:00.
	if entries[1].FreeBlock.DurationMinutes != 60 ||
		entries[3].FreeBlock.DurationMinutes != 60 ||
		entries[5].FreeBlock.DurationMinutes != 360 {
		t.Errorf("got free block durations %d, %d, %d, want 60, 60, 360",
			entries[1].FreeBlock.DurationMinutes, entries[3].FreeBlock.DurationMinutes, entries[5].FreeBlock.DurationMinutes)
	}

	if !entries[0].AllDay {
		t.Errorf("untimed habit should be an all day entry")
	}
	if !entries[0].Habit.CompletedToday {
		t.Errorf("completed habit should be marked completed")
	}
	if entries[6].Habit.CompletedToday {
		t.Errorf("uncompleted habit should not be marked completed")
	}
}

func TestService_BuildAgenda_ConfiguredWindow(t *testing.T) {
	t.Parallel()

	user := &users.User{ID: primitive.NewObjectID()}
	user.Settings.Agenda.WorkingWindowStart = "08:00"
	user.Settings.Agenda.WorkingWindowEnd = "12:00"

	service, _, _, _ := newTestService(user)

	agendaDay := day(2023, 1, 4)

	entries, err := service.BuildAgenda(context.Background(), user.ID.Hex(), agendaDay)
	if err != nil {
		t.Fatalf("got error %v, want none", err)
	}

	if len(entries) != 1 || entries[0].Type != EntryTypeFree {
		t.Fatalf("got %d entries, want a single free block", len(entries))
	}

	wantSpan := date.Timespan{Start: at(agendaDay, 8, 0), End: at(agendaDay, 12, 0)}
	if entries[0].Date != wantSpan {
		t.Errorf("got %v, want %v", entries[0].Date, wantSpan)
	}
}

func TestService_BuildAgenda_InvalidWindow(t *testing.T) {
	t.Parallel()

	var windowTests = []struct {
		start string
		end   string
	}{
		{"19:00", "09:00"}, // Case start after end
		{"morning", "19:00"}, // Case unparsable start
		{"09:00", ""}, // Case incomplete configuration
	}

	for index, tt := range windowTests {
		user := &users.User{ID: primitive.NewObjectID()}
		user.Settings.Agenda.WorkingWindowStart = tt.start
		user.Settings.Agenda.WorkingWindowEnd = tt.end

		service, _, _, _ := newTestService(user)

		_, err := service.BuildAgenda(context.Background(), user.ID.Hex(), day(2023, 1, 4))
		if !pkgerrors.Is(err, communication.ErrNoWorkingWindow) {
			t.Errorf("case %d: got %v, want ErrNoWorkingWindow", index, err)
		}
	}
}

func TestService_BuildAgenda_MissingUserDegrades(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newTestService(nil)

	entries, err := service.BuildAgenda(context.Background(), primitive.NewObjectID().Hex(), day(2023, 1, 4))
	if err != nil {
		t.Fatalf("got error %v, want none", err)
	}

	// No data at all still yields the default window as one free block.
	if len(entries) != 1 || entries[0].Type != EntryTypeFree {
		t.Fatalf("got %d entries, want a single free block", len(entries))
	}
}

func TestService_BuildAgenda_BrokenHabitIsExcluded(t *testing.T) {
	t.Parallel()

	user := &users.User{ID: primitive.NewObjectID()}
	service, habitRepository, _, _ := newTestService(user)

	agendaDay := day(2023, 1, 4)

	goodHabit := &habits.Habit{
		UserID:    user.ID,
		Name:      "Leer 15 minutos",
		Frequency: habits.FrequencyDaily,
		StartDate: day(2023, 1, 1),
		Status:    habits.StatusActive,
	}
	brokenHabit := &habits.Habit{
		UserID:    user.ID,
		Name:      "Meditar",
		Frequency: habits.FrequencyDaily,
		StartDate: day(2023, 1, 1),
		Status:    habits.StatusActive,
	}
	_ = habitRepository.Add(context.Background(), goodHabit)
	_ = habitRepository.Add(context.Background(), brokenHabit)

	service.CompletionRepository = &failingCompletionRepository{
		MockCompletionRepository: &habits.MockCompletionRepository{},
		failFor:                  brokenHabit.ID,
	}

	entries, err := service.BuildAgenda(context.Background(), user.ID.Hex(), agendaDay)
	if err != nil {
		t.Fatalf("got error %v, want none", err)
	}

	for _, entry := range entries {
		if entry.Type == EntryTypeHabit && entry.Title == "Meditar" {
			t.Errorf("broken habit should have been excluded from the agenda")
		}
	}

	foundGood := false
	for _, entry := range entries {
		if entry.Type == EntryTypeHabit && entry.Title == "Leer 15 minutos" {
			foundGood = true
		}
	}
	if !foundGood {
		t.Errorf("intact habit should still be part of the agenda")
	}
}
