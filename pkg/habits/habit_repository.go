package habits

import (
	"context"
	"errors"
	"time"

	"github.com/ordena-app/ordena-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HabitRepositoryInterface is the interface for a HabitRepository
type HabitRepositoryInterface interface {
	Add(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, habitID string, userID string) (*Habit, error)
	FindAll(ctx context.Context, userID string, includeArchived bool) ([]*Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Remove(ctx context.Context, habitID string, userID string) error
}

// MongoDBHabitRepository does everything related to habit storing
type MongoDBHabitRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a habit
func (s *MongoDBHabitRepository) Add(ctx context.Context, habit *Habit) error {
	habit.CreatedAt = time.Now()
	habit.LastModifiedAt = time.Now()
	habit.ID = primitive.NewObjectID()

	_, err := s.DB.InsertOne(ctx, habit)
	return err
}

// FindByID finds a habit of a user
func (s *MongoDBHabitRepository) FindByID(ctx context.Context, habitID string, userID string) (*Habit, error) {
	habitObjectID, err := primitive.ObjectIDFromHex(habitID)
	if err != nil {
		return nil, err
	}
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var habit = Habit{}
	result := s.DB.FindOne(ctx, bson.M{"_id": habitObjectID, "userId": userObjectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	err = result.Decode(&habit)
	if err != nil {
		return nil, err
	}

	return &habit, nil
}

// FindAll finds all habits of a user, sorted by creation time
func (s *MongoDBHabitRepository) FindAll(ctx context.Context, userID string, includeArchived bool) ([]*Habit, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"userId": userObjectID}
	if !includeArchived {
		filter["status"] = StatusActive
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"createdAt": 1})

	cursor, err := s.DB.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	var habits []*Habit
	err = cursor.All(ctx, &habits)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

// Update updates a habit
func (s *MongoDBHabitRepository) Update(ctx context.Context, habit *Habit) error {
	habit.LastModifiedAt = time.Now()

	result, err := s.DB.UpdateOne(ctx, bson.M{
		"_id":    habit.ID,
		"userId": habit.UserID,
	}, bson.M{"$set": habit})
	if err != nil {
		return err
	}

	if result.MatchedCount != 1 {
		return errors.New("updated count != 1")
	}

	return nil
}

// Remove deletes a habit unrecoverably
func (s *MongoDBHabitRepository) Remove(ctx context.Context, habitID string, userID string) error {
	habitObjectID, err := primitive.ObjectIDFromHex(habitID)
	if err != nil {
		return err
	}
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	result, err := s.DB.DeleteOne(ctx, bson.M{"_id": habitObjectID, "userId": userObjectID})
	if err != nil {
		return err
	}

	if result.DeletedCount != 1 {
		return errors.New("deleted count != 1")
	}

	return nil
}
