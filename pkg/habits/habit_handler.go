package habits

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/locking"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler is the handler for habit API calls
type Handler struct {
	HabitRepository      HabitRepositoryInterface
	CompletionRepository CompletionRepositoryInterface
	Logger               logger.Interface
	ResponseManager      *communication.ResponseManager
	Locker               locking.LockerInterface
	Evaluator            *RecurrenceEvaluator
	Tracker              *StreakTracker
}

// DueHabit is a due habit annotated with its completion state for one date
type DueHabit struct {
	Habit          *Habit  `json:"habit"`
	CategoryColor  string  `json:"categoryColor"`
	CompletedToday bool    `json:"completedToday"`
	Streaks        Streaks `json:"streaks"`
}

// HabitAdd creates a new habit
func (handler *Handler) HabitAdd(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habit := Habit{}
	err := json.NewDecoder(request.Body).Decode(&habit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	userObjectID, err := primitive.ObjectIDFromHex(authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	habit.UserID = userObjectID
	if habit.Status == "" {
		habit.Status = StatusActive
	}

	v := validator.New()
	err = v.Struct(habit)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	err = habit.ValidateSchedule()
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, err.Error(), err)
		return
	}

	err = handler.HabitRepository.Add(request.Context(), &habit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Habit couldn't be persisted in the database", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, &habit, http.StatusCreated)
}

// HabitGet retrieves a single habit
func (handler *Handler) HabitGet(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habitID := mux.Vars(request)["habitID"]

	habit, err := handler.HabitRepository.FindByID(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find habit %s", habitID), err)
		return
	}

	handler.ResponseManager.Respond(writer, habit)
}

// HabitsGet retrieves all habits of the authenticated user
func (handler *Handler) HabitsGet(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	includeArchived := request.URL.Query().Get("includeArchived") == "true"

	habits, err := handler.HabitRepository.FindAll(request.Context(), authContext.UserID, includeArchived)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load habits", err)
		return
	}

	if habits == nil {
		habits = []*Habit{}
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"results": habits,
	})
}

// HabitsToday lists the habits due today with their completion state
func (handler *Handler) HabitsToday(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	today := date.DayOf(time.Now())

	habits, err := handler.HabitRepository.FindAll(request.Context(), authContext.UserID, false)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load habits", err)
		return
	}

	dueHabits := []*DueHabit{}
	for _, habit := range habits {
		if !handler.Evaluator.IsDue(habit, today) {
			continue
		}

		completions, err := handler.CompletionRepository.FindAllForHabit(request.Context(), habit.ID)
		if err != nil {
			handler.Logger.Warning(fmt.Sprintf("could not load completions for habit %s", habit.ID.Hex()), err)
			continue
		}

		dueHabits = append(dueHabits, &DueHabit{
			Habit:          habit,
			CategoryColor:  CategoryColor(habit.Category),
			CompletedToday: completedOn(completions, today),
			Streaks:        handler.Tracker.ComputeStreaks(habit, completions, today),
		})
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"date":    today.Format(date.DayFormat),
		"results": dueHabits,
	})
}

// HabitUpdate updates specific values of a habit
func (handler *Handler) HabitUpdate(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habitID := mux.Vars(request)["habitID"]

	habit, err := handler.HabitRepository.FindByID(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find habit %s", habitID), err)
		return
	}

	err = json.NewDecoder(request.Body).Decode(habit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	err = habit.ValidateSchedule()
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, err.Error(), err)
		return
	}

	err = handler.HabitRepository.Update(request.Context(), habit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update habit", err)
		return
	}

	handler.ResponseManager.Respond(writer, habit)
}

// HabitArchive archives a habit, keeping its completion history
func (handler *Handler) HabitArchive(writer http.ResponseWriter, request *http.Request) {
	handler.setStatus(writer, request, StatusArchived)
}

// HabitUnarchive reactivates an archived habit
func (handler *Handler) HabitUnarchive(writer http.ResponseWriter, request *http.Request) {
	handler.setStatus(writer, request, StatusActive)
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request, status string) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habitID := mux.Vars(request)["habitID"]

	habit, err := handler.HabitRepository.FindByID(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find habit %s", habitID), err)
		return
	}

	habit.Status = status

	err = handler.HabitRepository.Update(request.Context(), habit)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update habit", err)
		return
	}

	handler.ResponseManager.Respond(writer, habit)
}

// HabitDelete hard deletes a habit and its completion history
func (handler *Handler) HabitDelete(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habitID := mux.Vars(request)["habitID"]

	habit, err := handler.HabitRepository.FindByID(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find habit %s", habitID), err)
		return
	}

	err = handler.CompletionRepository.RemoveAllForHabit(request.Context(), habit.ID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not delete completion history", err)
		return
	}

	err = handler.HabitRepository.Remove(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not delete habit", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// HabitComplete marks a habit completed for a date
func (handler *Handler) HabitComplete(writer http.ResponseWriter, request *http.Request) {
	handler.setCompletion(writer, request, true)
}

// HabitUncomplete removes the completion of a habit for a date
func (handler *Handler) HabitUncomplete(writer http.ResponseWriter, request *http.Request) {
	handler.setCompletion(writer, request, false)
}

func (handler *Handler) setCompletion(writer http.ResponseWriter, request *http.Request, completed bool) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	habitID := mux.Vars(request)["habitID"]
	dayString := mux.Vars(request)["date"]

	day, err := date.ParseDay(dayString)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("%s is not a valid date", dayString), err)
		return
	}

	habit, err := handler.HabitRepository.FindByID(request.Context(), habitID, authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			fmt.Sprintf("Could not find habit %s", habitID), err)
		return
	}

	if completed && !handler.Evaluator.IsDue(habit, day) {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("Habit %s is not due on %s", habitID, dayString), nil)
		return
	}

	// Concurrent complete and uncomplete calls for the same pair race on the
	// upsert, so the pair is guarded by a lock until the streaks are read back.
	lock, err := handler.Locker.Acquire(request.Context(), fmt.Sprintf("habit-completion:%s:%s", habit.ID.Hex(), day.Format(date.DayFormat)), time.Second*30)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not acquire lock", err)
		return
	}
	defer func(lock locking.LockInterface) {
		err := lock.Release(request.Context())
		if err != nil {
			handler.Logger.Warning(fmt.Sprintf("could not release lock %s", lock.Key()), err)
		}
	}(lock)

	record, err := handler.CompletionRepository.SetCompletion(request.Context(), habit.ID, habit.UserID, day, completed)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not store completion", err)
		return
	}

	completions, err := handler.CompletionRepository.FindAllForHabit(request.Context(), habit.ID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not load completion history", err)
		return
	}

	streaks := handler.Tracker.ComputeStreaks(habit, completions, date.DayOf(time.Now()))

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"completion": record,
		"streaks":    streaks,
	})
}

func completedOn(completions []*CompletionRecord, day time.Time) bool {
	for _, record := range completions {
		if record.Completed && date.SameDay(record.Date, day) {
			return true
		}
	}
	return false
}
