package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ordena-app/ordena-backend/pkg/auth"
	"github.com/ordena-app/ordena-backend/pkg/auth/jwt"
	"github.com/ordena-app/ordena-backend/pkg/communication"
	"github.com/ordena-app/ordena-backend/pkg/date"
	"github.com/ordena-app/ordena-backend/pkg/email"
	"github.com/ordena-app/ordena-backend/pkg/environment"
	"github.com/ordena-app/ordena-backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Handler is the handler for user API calls
type Handler struct {
	UserRepository  UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
	Secret          string
	EmailService    email.Mailer
}

// UserRegister is the route for registering a user
func (handler *Handler) UserRegister(writer http.ResponseWriter, request *http.Request) {
	user := User{}
	body := map[string]interface{}{}

	decoder := json.NewDecoder(request.Body)

	err := decoder.Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	name, _ := body["name"].(string)
	mailAddress, _ := body["email"].(string)
	password, _ := body["password"].(string)

	user.Name = name
	user.Email = mailAddress
	user.Settings.Agenda.TimeZone = "Europe/Madrid"

	presentUser, err := handler.UserRepository.FindByEmail(request.Context(), user.Email)
	if presentUser != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusConflict,
			"User with email "+presentUser.Email+" already exists", err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem hashing password", err)
		return
	}
	user.Password = string(hashedPassword)

	v := validator.New()
	err = v.Struct(user)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	user.EmailVerificationToken = uuid.New().String()

	err = handler.UserRepository.Add(request.Context(), &user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"User couldn't be persisted in the database", err)
		return
	}

	err = handler.EmailService.SendEmail(request.Context(), &email.Email{
		ReceiverName:    user.Name,
		ReceiverAddress: user.Email,
		Template:        email.TemplateVerification,
		Parameters: map[string]interface{}{
			"verifyLink": fmt.Sprintf("%s/v1/auth/register/verify?token=%s", environment.Global.BaseUrl, user.EmailVerificationToken),
		},
	})
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not send registration confirmation mail", err)
		return
	}

	handler.generateAndRespondWithTokens(&user, writer)
}

// UserVerifyEmail marks a user's email as verified
func (handler *Handler) UserVerifyEmail(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get("token")
	if token == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Must provide token", nil)
		return
	}

	user, err := handler.UserRepository.FindByVerificationToken(request.Context(), token)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"Invalid verification token", err)
		return
	}

	user.EmailVerified = true
	user.EmailVerificationToken = ""

	err = handler.UserRepository.Update(request.Context(), user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Could not update user", err)
		return
	}

	http.Redirect(writer, request, environment.Global.FrontendBaseUrl, http.StatusFound)
}

// UserLogin is the route for user authentication
func (handler *Handler) UserLogin(writer http.ResponseWriter, request *http.Request) {
	userLogin := UserLogin{}
	err := json.NewDecoder(request.Body).Decode(&userLogin)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	v := validator.New()
	err = v.Struct(userLogin)
	if err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, e.Error(), e)
			return
		}
	}

	user, err := handler.UserRepository.FindByEmail(request.Context(), userLogin.Email)
	if err != nil || user == nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userLogin.Password))
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong credentials", err)
		return
	}

	handler.generateAndRespondWithTokens(user, writer)
}

// UserRefresh refreshes a users access token by providing a refresh token
func (handler *Handler) UserRefresh(writer http.ResponseWriter, request *http.Request) {
	body := struct {
		RefreshToken string `json:"refreshToken"`
	}{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"Wrong format", err)
		return
	}

	if body.RefreshToken == "" {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest,
			"No refresh token specified", err)
		return
	}

	claims := jwt.Claims{}

	refreshToken, err := jwt.Verify(body.RefreshToken, jwt.TokenTypeRefresh, handler.Secret, jwt.AlgHS256, claims)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Token invalid", err)
		return
	}

	u, err := handler.UserRepository.FindByID(request.Context(), refreshToken.Payload.Subject)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "User not found", err)
		return
	}

	handler.generateAndRespondWithTokens(u, writer)
}

// UserGet retrieves the authenticated user
func (handler *Handler) UserGet(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	u, err := handler.UserRepository.FindByID(request.Context(), authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound,
			"User wasn't found", err)
		return
	}

	handler.ResponseManager.Respond(writer, u)
}

// UserSettingsPatch updates specific values of a user
func (handler *Handler) UserSettingsPatch(writer http.ResponseWriter, request *http.Request) {
	authContext, ok := auth.FromRequest(request)
	if !ok {
		handler.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", nil)
		return
	}

	user, err := handler.UserRepository.FindByID(request.Context(), authContext.UserID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusNotFound, fmt.Sprintf("Could not find user %s", authContext.UserID), err)
		return
	}

	userSettings := user.Settings
	originalSettings := userSettings

	err = json.NewDecoder(request.Body).Decode(&userSettings)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if userSettings.Agenda.TimeZone != originalSettings.Agenda.TimeZone {
		_, err := time.LoadLocation(userSettings.Agenda.TimeZone)
		if err != nil {
			handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, fmt.Sprintf("Timezone %s does not exist", userSettings.Agenda.TimeZone), err)
			return
		}
	}

	if err := validateWorkingWindow(userSettings.Agenda); err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Working window is invalid", err)
		return
	}

	user.Settings = userSettings
	err = handler.UserRepository.UpdateSettings(request.Context(), user)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, fmt.Sprintf("Couldn't update user settings for %s", authContext.UserID), err)
		return
	}

	handler.ResponseManager.Respond(writer, user)
}

// validateWorkingWindow checks that either no window is set or a complete,
// well ordered one is
func validateWorkingWindow(settings AgendaSettings) error {
	if settings.WorkingWindowStart == "" && settings.WorkingWindowEnd == "" {
		return nil
	}

	if settings.WorkingWindowStart == "" || settings.WorkingWindowEnd == "" {
		return fmt.Errorf("both start and end of the working window must be set")
	}

	start, err := time.Parse(date.ClockFormat, settings.WorkingWindowStart)
	if err != nil {
		return err
	}

	end, err := time.Parse(date.ClockFormat, settings.WorkingWindowEnd)
	if err != nil {
		return err
	}

	if !start.Before(end) {
		return fmt.Errorf("working window start %s must be before end %s", settings.WorkingWindowStart, settings.WorkingWindowEnd)
	}

	return nil
}

func (handler *Handler) generateAndRespondWithTokens(user *User, writer http.ResponseWriter) {
	accessClaims := jwt.Claims{
		Subject:        user.ID.Hex(),
		Issuer:         "ordena",
		IssuedAt:       time.Now().Unix(),
		ExpirationTime: time.Now().AddDate(0, 0, 1).Unix(),
		TokenType:      jwt.TokenTypeAccess,
	}
	accessToken := jwt.New(jwt.AlgHS256, accessClaims)

	refreshTokenClaims := jwt.Claims{
		Subject:   user.ID.Hex(),
		Issuer:    "ordena",
		IssuedAt:  time.Now().Unix(),
		TokenType: jwt.TokenTypeRefresh,
	}
	refreshToken := jwt.New(jwt.AlgHS256, refreshTokenClaims)

	accessTokenString, err := accessToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem signing access token", err)
		return
	}

	refreshTokenString, err := refreshToken.Sign(handler.Secret)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError,
			"Problem signing refresh token", err)
		return
	}

	var response = map[string]interface{}{
		"result":       user,
		"accessToken":  accessTokenString,
		"refreshToken": refreshTokenString,
	}

	handler.ResponseManager.Respond(writer, response)
}
