package events

import (
	"time"

	"github.com/ordena-app/ordena-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is the model for a calendar event
type Event struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	UserID         primitive.ObjectID `json:"-" bson:"userId"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`

	Title       string        `json:"title" bson:"title" validate:"required"`
	Description string        `json:"description" bson:"description"`
	Date        date.Timespan `json:"date" bson:"date" validate:"required"`
	Category    string        `json:"category" bson:"category"`

	// IsHabit marks an event derived from a habit's time window. Such
	// entries are read only for the user and never edited directly.
	IsHabit bool `json:"isHabit" bson:"isHabit"`

	GoogleEventID string `json:"googleEventId,omitempty" bson:"googleEventId,omitempty"`

	Deleted bool `json:"deleted" bson:"deleted"`
}
