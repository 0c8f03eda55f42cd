package events

import (
	"context"
	"errors"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockEventRepository is an in memory EventRepositoryInterface for tests
type MockEventRepository struct {
	Events []*Event
}

// Add adds an event
func (r *MockEventRepository) Add(ctx context.Context, event *Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.LastModifiedAt = time.Now()
	r.Events = append(r.Events, event)
	return nil
}

// FindByID finds an event of a user
func (r *MockEventRepository) FindByID(ctx context.Context, eventID string, userID string) (*Event, error) {
	for _, event := range r.Events {
		if event.ID.Hex() == eventID && event.UserID.Hex() == userID && !event.Deleted {
			return event, nil
		}
	}

	return nil, errors.New("event not found")
}

// FindByGoogleEventID finds an imported event by its Google event id
func (r *MockEventRepository) FindByGoogleEventID(ctx context.Context, googleEventID string, userID string) (*Event, error) {
	for _, event := range r.Events {
		if event.GoogleEventID == googleEventID && event.UserID.Hex() == userID && !event.Deleted {
			return event, nil
		}
	}

	return nil, errors.New("event not found")
}

// FindForDay finds all events of a user that intersect a calendar date
func (r *MockEventRepository) FindForDay(ctx context.Context, userID string, day time.Time) ([]*Event, error) {
	dayStart := date.DayOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var found []*Event
	for _, event := range r.Events {
		if event.UserID.Hex() != userID || event.Deleted {
			continue
		}
		if event.Date.Start.Before(dayEnd) && event.Date.End.After(dayStart) {
			found = append(found, event)
		}
	}

	return found, nil
}

// Update updates an event
func (r *MockEventRepository) Update(ctx context.Context, event *Event) error {
	for i, e := range r.Events {
		if e.ID == event.ID {
			r.Events[i] = event
			return nil
		}
	}

	return errors.New("event not found")
}

// Delete marks an event as deleted
func (r *MockEventRepository) Delete(ctx context.Context, eventID string, userID string) error {
	for _, e := range r.Events {
		if e.ID.Hex() == eventID && e.UserID.Hex() == userID {
			e.Deleted = true
			return nil
		}
	}

	return errors.New("event not found")
}
