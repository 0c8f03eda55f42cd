package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ordena-app/ordena-backend/pkg/auth/jwt"
	"github.com/ordena-app/ordena-backend/pkg/communication"
)

// Context carries the identity of an authenticated request.
// It is passed explicitly into every collaborator call instead of being
// read from ambient process wide state.
type Context struct {
	UserID string
}

type key string

const (
	// keyAuthContext is the request context key the auth Context is stored under
	keyAuthContext key = "authContext"
)

// FromContext extracts the auth Context of an authenticated request
func FromContext(ctx context.Context) (Context, bool) {
	authContext, ok := ctx.Value(keyAuthContext).(Context)
	return authContext, ok
}

// FromRequest extracts the auth Context of an authenticated request
func FromRequest(r *http.Request) (Context, bool) {
	return FromContext(r.Context())
}

// AuthenticationMiddleware checks if the user login token is valid and responds with an error if it's not the case
type AuthenticationMiddleware struct {
	ResponseManager *communication.ResponseManager
	Secret          string
}

// Middleware gets called when a request needs to be authenticated
func (m *AuthenticationMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, r *http.Request) {
		extractedToken, err := extractTokenStringFromHeader(r)
		if err != nil {
			m.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "No authorization", err)
			return
		}
		claims := jwt.Claims{}
		token, err := jwt.Verify(extractedToken, jwt.TokenTypeAccess, m.Secret, jwt.AlgHS256, claims)
		if err != nil {
			m.ResponseManager.RespondWithError(writer, http.StatusUnauthorized, "Token invalid", err)
			return
		}

		newContext := context.WithValue(r.Context(), keyAuthContext, Context{UserID: token.Payload.Subject})
		next.ServeHTTP(writer, r.WithContext(newContext))
	})
}

func extractTokenStringFromHeader(r *http.Request) (string, error) {
	nonformatted := r.Header.Get("Authorization")
	if strings.TrimSpace(nonformatted) == "" {
		return "", errors.New("no authorization token specified")
	}

	tokenParts := strings.Fields(nonformatted)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", errors.New("token must be a bearer token")
	}

	if strings.TrimSpace(tokenParts[1]) == "" {
		return "", errors.New("no authorization token specified")
	}

	return tokenParts[1], nil
}
