package events

import (
	"context"
	"time"

	"github.com/ordena-app/ordena-backend/internal/google"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/users"
	"golang.org/x/oauth2"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleCalendarRepository reads events from a user's Google calendar
type GoogleCalendarRepository struct {
	Config  *oauth2.Config
	Logger  logger.Interface
	Service *gcalendar.Service
	user    *users.User
}

// NewGoogleCalendarRepository constructs a GoogleCalendarRepository for a connected user
func NewGoogleCalendarRepository(ctx context.Context, u *users.User, log logger.Interface) (*GoogleCalendarRepository, error) {
	newRepo := GoogleCalendarRepository{}

	config, err := google.ReadGoogleConfig()
	if err != nil {
		return nil, err
	}

	newRepo.Config = config

	if u.GoogleCalendarConnection.Token.AccessToken == "" {
		return nil, communication.ErrCalendarAuthInvalid
	}

	if u.GoogleCalendarConnection.Token.Expiry.Before(time.Now()) {
		source := newRepo.Config.TokenSource(ctx, &u.GoogleCalendarConnection.Token)
		newToken, err := source.Token()
		if err != nil {
			return nil, communication.ErrCalendarAuthInvalid
		}
		u.GoogleCalendarConnection.Token = *newToken
	}

	client := newRepo.Config.Client(ctx, &u.GoogleCalendarConnection.Token)

	srv, err := gcalendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}

	newRepo.Service = srv
	newRepo.Logger = log
	newRepo.user = u

	return &newRepo, nil
}

func checkForInvalidTokenError(err error) error {
	if e, ok := err.(*googleapi.Error); ok {
		if e.Code == 401 {
			return communication.ErrCalendarAuthInvalid
		}
	}

	return err
}

// ImportDayEvents pulls all events of one calendar date from Google Calendar
func (c *GoogleCalendarRepository) ImportDayEvents(day time.Time) ([]*Event, error) {
	calendarID := c.user.GoogleCalendarConnection.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	dayStart := date.DayOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	request := c.Service.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339))

	var imported []*Event

	for {
		response, err := request.Do()
		if err != nil {
			return nil, checkForInvalidTokenError(err)
		}

		for _, item := range response.Items {
			if item.Status == "cancelled" {
				continue
			}

			event, err := c.googleEventToEvent(item)
			if err != nil {
				c.Logger.Warning("could not convert google event "+item.Id, err)
				continue
			}
			if event == nil {
				continue
			}

			imported = append(imported, event)
		}

		if response.NextPageToken == "" {
			break
		}

		request = request.PageToken(response.NextPageToken)
	}

	return imported, nil
}

// googleEventToEvent converts a Google calendar event. All day entries have
// no DateTime and are skipped, they don't occupy working time.
func (c *GoogleCalendarRepository) googleEventToEvent(event *gcalendar.Event) (*Event, error) {
	if event.Start == nil || event.End == nil || event.Start.DateTime == "" || event.End.DateTime == "" {
		return nil, nil
	}

	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		return nil, err
	}

	end, err := time.Parse(time.RFC3339, event.End.DateTime)
	if err != nil {
		return nil, err
	}

	newEvent := &Event{
		UserID:        c.user.ID,
		Title:         event.Summary,
		Description:   event.Description,
		GoogleEventID: event.Id,
		Date: date.Timespan{
			Start: start,
			End:   end,
		},
	}

	return newEvent, nil
}
