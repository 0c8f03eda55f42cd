package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"
)

// User is the model for a registered user
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name" validate:"required"`
	Password       string             `json:"-" bson:"password" validate:"required"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`

	EmailVerified          bool   `json:"emailVerified" bson:"emailVerified"`
	EmailVerificationToken string `json:"-" bson:"emailVerificationToken,omitempty"`

	Settings Settings `json:"settings" bson:"settings"`

	GoogleCalendarConnection GoogleCalendarConnection `json:"-" bson:"googleCalendarConnection,omitempty"`
}

// UserLogin is the payload for a login request
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" bson:"password" validate:"required"`
}

// Settings groups all configurable values of a user
type Settings struct {
	Agenda AgendaSettings `json:"agenda" bson:"agenda"`
}

// AgendaSettings configures how the daily agenda is built.
// An empty working window means the default window applies.
type AgendaSettings struct {
	WorkingWindowStart string `json:"workingWindowStart" bson:"workingWindowStart"`
	WorkingWindowEnd   string `json:"workingWindowEnd" bson:"workingWindowEnd"`
	TimeZone           string `json:"timeZone" bson:"timeZone"`
}

// GoogleCalendarConnection holds everything needed to talk to a user's Google calendar
type GoogleCalendarConnection struct {
	Token      oauth2.Token `json:"-" bson:"token,omitempty"`
	StateToken string       `json:"stateToken,omitempty" bson:"stateToken,omitempty"`
	CalendarID string       `json:"calendarId,omitempty" bson:"calendarId,omitempty"`
}
