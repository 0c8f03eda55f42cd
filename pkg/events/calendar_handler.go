package events

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ordena-app/ordena-backend/internal/google"
	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/environment"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"github.com/ordena-app/ordena-backend/pkg/users"
)

// CalendarHandler is the handler for the Google calendar connection
type CalendarHandler struct {
	UserRepository  users.UserRepositoryInterface
	EventRepository EventRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// GoogleConnect starts the OAuth flow and responds with the consent URL
func (handler *CalendarHandler) GoogleConnect(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	u, err := handler.UserRepository.FindByID(request.Context(), authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "User wasn't found", err)
		return
	}

	stateToken := uuid.New().String()

	url, err := google.GetGoogleAuthURL(stateToken)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not build Google auth URL", err)
		return
	}

	u.GoogleCalendarConnection.StateToken = stateToken

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update user", err)
		return
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"url": url,
	})
}

// GoogleCallback receives the OAuth redirect and stores the user's token
func (handler *CalendarHandler) GoogleCallback(writer http.ResponseWriter, request *http.Request) {
	stateToken := request.URL.Query().Get("state")
	authCode := request.URL.Query().Get("code")

	if stateToken == "" || authCode == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Missing state or code", nil)
		return
	}

	u, err := handler.UserRepository.FindByGoogleStateToken(request.Context(), stateToken)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"Invalid state token", err)
		return
	}

	token, err := google.GetGoogleToken(request.Context(), authCode)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not exchange auth code", err)
		return
	}

	u.GoogleCalendarConnection.Token = *token
	u.GoogleCalendarConnection.StateToken = ""

	err = handler.UserRepository.Update(request.Context(), u)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update user", err)
		return
	}

	http.Redirect(writer, request, environment.Global.FrontendBaseUrl, http.StatusFound)
}

// ImportDay imports a single day's events from the user's Google calendar
func (handler *CalendarHandler) ImportDay(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	dayString := mux.Vars(request)["date"]

	day, err := date.ParseDay(dayString)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("%s is not a valid date", dayString), err)
		return
	}

	u, err := handler.UserRepository.FindByID(request.Context(), authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, "User wasn't found", err)
		return
	}

	calendarRepository, err := NewGoogleCalendarRepository(request.Context(), u, handler.Logger)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not connect to Google calendar", err)
		return
	}

	imported, err := calendarRepository.ImportDayEvents(day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not import events", err)
		return
	}

	stored := []*Event{}
	for _, event := range imported {
		existing, err := handler.EventRepository.FindByGoogleEventID(request.Context(), event.GoogleEventID, authContext.UserID)
		if err == nil && existing != nil {
			existing.Title = event.Title
			existing.Description = event.Description
			existing.Date = event.Date

			err = handler.EventRepository.Update(request.Context(), existing)
			if err != nil {
				handler.Logger.Warning(fmt.Sprintf("could not update imported event %s", event.GoogleEventID), err)
				continue
			}

			stored = append(stored, existing)
			continue
		}

		err = handler.EventRepository.Add(request.Context(), event)
		if err != nil {
			handler.Logger.Warning(fmt.Sprintf("could not store imported event %s", event.GoogleEventID), err)
			continue
		}

		stored = append(stored, event)
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"date":    day.Format(date.DayFormat),
		"results": stored,
	})
}
