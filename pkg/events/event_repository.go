package events

import (
	"context"
	"errors"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepositoryInterface is the interface for an EventRepository
type EventRepositoryInterface interface {
	Add(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, eventID string, userID string) (*Event, error)
	FindByGoogleEventID(ctx context.Context, googleEventID string, userID string) (*Event, error)
	FindForDay(ctx context.Context, userID string, day time.Time) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, eventID string, userID string) error
}

// MongoDBEventRepository stores calendar events
type MongoDBEventRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds an event
func (s *MongoDBEventRepository) Add(ctx context.Context, event *Event) error {
	event.CreatedAt = time.Now()
	event.LastModifiedAt = time.Now()
	event.ID = primitive.NewObjectID()

	_, err := s.DB.InsertOne(ctx, event)
	return err
}

// FindByID finds an event of a user
func (s *MongoDBEventRepository) FindByID(ctx context.Context, eventID string, userID string) (*Event, error) {
	eventObjectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, err
	}
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var event = Event{}
	result := s.DB.FindOne(ctx, bson.M{"_id": eventObjectID, "userId": userObjectID, "deleted": false})
	if result.Err() != nil {
		return nil, result.Err()
	}

	err = result.Decode(&event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// FindByGoogleEventID finds an imported event by its Google event id
func (s *MongoDBEventRepository) FindByGoogleEventID(ctx context.Context, googleEventID string, userID string) (*Event, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var event = Event{}
	result := s.DB.FindOne(ctx, bson.M{"googleEventId": googleEventID, "userId": userObjectID, "deleted": false})
	if result.Err() != nil {
		return nil, result.Err()
	}

	err = result.Decode(&event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// FindForDay finds all events of a user that intersect a calendar date
func (s *MongoDBEventRepository) FindForDay(ctx context.Context, userID string, day time.Time) ([]*Event, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	dayStart := date.DayOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date.start": 1})

	cursor, err := s.DB.Find(ctx, bson.M{
		"userId":     userObjectID,
		"deleted":    false,
		"date.start": bson.M{"$lt": dayEnd},
		"date.end":   bson.M{"$gt": dayStart},
	}, findOptions)
	if err != nil {
		return nil, err
	}

	var events []*Event
	err = cursor.All(ctx, &events)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// Update updates an event
func (s *MongoDBEventRepository) Update(ctx context.Context, event *Event) error {
	event.LastModifiedAt = time.Now()

	result, err := s.DB.UpdateOne(ctx, bson.M{
		"_id":    event.ID,
		"userId": event.UserID,
	}, bson.M{"$set": event})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return errors.New("updated count != 1")
	}

	return nil
}

// Delete marks an event as deleted
func (s *MongoDBEventRepository) Delete(ctx context.Context, eventID string, userID string) error {
	eventObjectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return err
	}
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	findOptions := options.FindOneAndUpdate()
	findOptions.SetReturnDocument(options.After)

	result := s.DB.FindOneAndUpdate(ctx, bson.M{
		"_id":    eventObjectID,
		"userId": userObjectID,
	}, bson.M{
		"$set": bson.M{
			"deleted":        true,
			"lastModifiedAt": time.Now(),
		},
	}, findOptions)
	if result.Err() != nil {
		return result.Err()
	}

	return nil
}
