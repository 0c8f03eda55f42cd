package agenda

import (
	"fmt"
	"net/http"

	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/logger"
)

// Handler is the handler for agenda API calls
type Handler struct {
	Service         *Service
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// AgendaGet builds the agenda for one calendar date
func (handler *Handler) AgendaGet(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	dayString := request.URL.Query().Get("date")
	if dayString == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Must provide a date query parameter", nil)
		return
	}

	day, err := date.ParseDay(dayString)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			fmt.Sprintf("%s is not a valid date", dayString), err)
		return
	}

	entries, err := handler.Service.BuildAgenda(request.Context(), authContext.UserID, day)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not build agenda", err)
		return
	}

	handler.ResponseManager.Respond(writer, map[string]interface{}{
		"date":    day.Format(date.DayFormat),
		"results": entries,
	})
}
