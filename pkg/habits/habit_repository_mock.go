package habits

import (
	"context"
	"errors"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockHabitRepository is an in memory HabitRepositoryInterface for tests
type MockHabitRepository struct {
	Habits []*Habit
}

// Add adds a habit
func (r *MockHabitRepository) Add(ctx context.Context, habit *Habit) error {
	habit.ID = primitive.NewObjectID()
	habit.CreatedAt = time.Now()
	habit.LastModifiedAt = time.Now()
	r.Habits = append(r.Habits, habit)
	return nil
}

// FindByID finds a habit of a user
func (r *MockHabitRepository) FindByID(ctx context.Context, habitID string, userID string) (*Habit, error) {
	for _, habit := range r.Habits {
		if habit.ID.Hex() == habitID && habit.UserID.Hex() == userID {
			return habit, nil
		}
	}

	return nil, errors.New("habit not found")
}

// FindAll finds all habits of a user
func (r *MockHabitRepository) FindAll(ctx context.Context, userID string, includeArchived bool) ([]*Habit, error) {
	var habits []*Habit
	for _, habit := range r.Habits {
		if habit.UserID.Hex() != userID {
			continue
		}
		if !includeArchived && habit.Status == StatusArchived {
			continue
		}
		habits = append(habits, habit)
	}

	return habits, nil
}

// Update updates a habit
func (r *MockHabitRepository) Update(ctx context.Context, habit *Habit) error {
	for i, h := range r.Habits {
		if h.ID == habit.ID {
			r.Habits[i] = habit
			return nil
		}
	}

	return errors.New("habit not found")
}

// Remove deletes a habit
func (r *MockHabitRepository) Remove(ctx context.Context, habitID string, userID string) error {
	for i, h := range r.Habits {
		if h.ID.Hex() == habitID && h.UserID.Hex() == userID {
			r.Habits = append(r.Habits[:i], r.Habits[i+1:]...)
			return nil
		}
	}

	return errors.New("habit not found")
}

// MockCompletionRepository is an in memory CompletionRepositoryInterface for tests
type MockCompletionRepository struct {
	Records []*CompletionRecord
}

// SetCompletion upserts the completion record for a (habit, date) pair
func (r *MockCompletionRepository) SetCompletion(ctx context.Context, habitID primitive.ObjectID, userID primitive.ObjectID, day time.Time, completed bool) (*CompletionRecord, error) {
	day = date.DayOf(day)

	for _, record := range r.Records {
		if record.HabitID == habitID && date.SameDay(record.Date, day) {
			record.Completed = completed
			record.LastModifiedAt = time.Now()
			return record, nil
		}
	}

	record := &CompletionRecord{
		ID:             primitive.NewObjectID(),
		HabitID:        habitID,
		UserID:         userID,
		Date:           day,
		Completed:      completed,
		LastModifiedAt: time.Now(),
	}
	r.Records = append(r.Records, record)

	return record, nil
}

// FindAllForHabit returns the full completion history of a habit
func (r *MockCompletionRepository) FindAllForHabit(ctx context.Context, habitID primitive.ObjectID) ([]*CompletionRecord, error) {
	var records []*CompletionRecord
	for _, record := range r.Records {
		if record.HabitID == habitID {
			records = append(records, record)
		}
	}

	return records, nil
}

// FindForDay returns all completion records of a user for one date
func (r *MockCompletionRepository) FindForDay(ctx context.Context, userID primitive.ObjectID, day time.Time) ([]*CompletionRecord, error) {
	var records []*CompletionRecord
	for _, record := range r.Records {
		if record.UserID == userID && date.SameDay(record.Date, day) {
			records = append(records, record)
		}
	}

	return records, nil
}

// RemoveAllForHabit discards the completion history of a habit
func (r *MockCompletionRepository) RemoveAllForHabit(ctx context.Context, habitID primitive.ObjectID) error {
	var kept []*CompletionRecord
	for _, record := range r.Records {
		if record.HabitID != habitID {
			kept = append(kept, record)
		}
	}
	r.Records = kept

	return nil
}
