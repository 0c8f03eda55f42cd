package habits

import (
	"context"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CompletionRepositoryInterface is the interface for a CompletionRepository
type CompletionRepositoryInterface interface {
	SetCompletion(ctx context.Context, habitID primitive.ObjectID, userID primitive.ObjectID, day time.Time, completed bool) (*CompletionRecord, error)
	FindAllForHabit(ctx context.Context, habitID primitive.ObjectID) ([]*CompletionRecord, error)
	FindForDay(ctx context.Context, userID primitive.ObjectID, day time.Time) ([]*CompletionRecord, error)
	RemoveAllForHabit(ctx context.Context, habitID primitive.ObjectID) error
}

// MongoDBCompletionRepository stores completion records
type MongoDBCompletionRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// SetCompletion upserts the completion record for a (habit, date) pair.
// Last write wins, repeating the same call leaves the same single record.
func (s *MongoDBCompletionRepository) SetCompletion(ctx context.Context, habitID primitive.ObjectID, userID primitive.ObjectID, day time.Time, completed bool) (*CompletionRecord, error) {
	day = date.DayOf(day)

	findOptions := options.FindOneAndUpdate()
	findOptions.SetUpsert(true)
	findOptions.SetReturnDocument(options.After)

	result := s.DB.FindOneAndUpdate(ctx, bson.M{
		"habitId": habitID,
		"date":    day,
	}, bson.M{
		"$set": bson.M{
			"completed":      completed,
			"lastModifiedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"_id":     primitive.NewObjectID(),
			"habitId": habitID,
			"userId":  userID,
			"date":    day,
		},
	}, findOptions)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var record = CompletionRecord{}
	err := result.Decode(&record)
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// FindAllForHabit returns the full completion history of a habit
func (s *MongoDBCompletionRepository) FindAllForHabit(ctx context.Context, habitID primitive.ObjectID) ([]*CompletionRecord, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.M{"date": 1})

	cursor, err := s.DB.Find(ctx, bson.M{"habitId": habitID}, findOptions)
	if err != nil {
		return nil, err
	}

	var records []*CompletionRecord
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// FindForDay returns all completion records of a user for one date
func (s *MongoDBCompletionRepository) FindForDay(ctx context.Context, userID primitive.ObjectID, day time.Time) ([]*CompletionRecord, error) {
	cursor, err := s.DB.Find(ctx, bson.M{"userId": userID, "date": date.DayOf(day)})
	if err != nil {
		return nil, err
	}

	var records []*CompletionRecord
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// RemoveAllForHabit discards the completion history of a habit
func (s *MongoDBCompletionRepository) RemoveAllForHabit(ctx context.Context, habitID primitive.ObjectID) error {
	_, err := s.DB.DeleteMany(ctx, bson.M{"habitId": habitID})
	return err
}
