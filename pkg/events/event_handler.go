package events

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler is the handler for calendar event API calls
type Handler struct {
	EventRepository EventRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// EventAdd creates a new calendar event
func (handler *Handler) EventAdd(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	event := Event{}
	err := json.NewDecoder(request.Body).Decode(&event)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	userObjectID, err := primitive.ObjectIDFromHex(authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	event.UserID = userObjectID
	event.IsHabit = false
	event.Deleted = false

	v := validator.New()
	err = v.Struct(event)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	if !event.Date.IsStartBeforeEnd() {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Event end must be after its start", nil)
		return
	}

	err = handler.EventRepository.Add(request.Context(), &event)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Event couldn't be persisted in the database", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, &event, http.StatusCreated)
}

// EventGet retrieves a single event
func (handler *Handler) EventGet(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	eventID := mux.Vars(request)["eventID"]

	event, err := handler.EventRepository.FindByID(request.Context(), eventID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find event %s", eventID), err)
		return
	}

	handler.ResponseManager.Respond(writer, event)
}

// EventsForDay lists all events intersecting a calendar date
func (handler *Handler) EventsForDay(writer http.ResponseWriter, request *http.Request) {
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

	events, err := handler.EventRepository.FindForDay(request.Context(), authContext.UserID, day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load events", err)
		return
	}

	if events == nil {
		events = []*Event{}
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"date":    day.Format(date.DayFormat),
		"results": events,
	})
}

// EventUpdate updates specific values of an event
func (handler *Handler) EventUpdate(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	eventID := mux.Vars(request)["eventID"]

	event, err := handler.EventRepository.FindByID(request.Context(), eventID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find event %s", eventID), err)
		return
	}

	if event.IsHabit {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Habit derived events can not be edited", nil)
		return
	}

	err = json.NewDecoder(request.Body).Decode(event)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !event.Date.IsStartBeforeEnd() {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Event end must be after its start", nil)
		return
	}

	err = handler.EventRepository.Update(request.Context(), event)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update event", err)
		return
	}

	handler.ResponseManager.Respond(writer, event)
}

// EventDelete marks an event as deleted
func (handler *Handler) EventDelete(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	eventID := mux.Vars(request)["eventID"]

	event, err := handler.EventRepository.FindByID(request.Context(), eventID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find event %s", eventID), err)
		return
	}

	if event.IsHabit {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Habit derived events can not be deleted", nil)
		return
	}

	err = handler.EventRepository.Delete(request.Context(), eventID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not delete event", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}
