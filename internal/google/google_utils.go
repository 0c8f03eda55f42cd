package google

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/ordena-app/ordena-backend/pkg/environment"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
)

// ReadGoogleConfig reads and parses the json file where google credentials are stored
func ReadGoogleConfig() (*oauth2.Config, error) {
	b, err := ioutil.ReadFile("./keys/credentials.json")
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(b, gcalendar.CalendarReadonlyScope)
	if err != nil {
		return nil, err
	}

	apiBaseURL := "http://localhost"
	if environment.Global.BaseUrl != "" {
		apiBaseURL = environment.Global.BaseUrl
	}

	config.RedirectURL = fmt.Sprintf("%s/v1/calendar/google/callback", apiBaseURL)

	return config, nil
}

// GetGoogleToken gets a Google OAuth token with an auth code
func GetGoogleToken(ctx context.Context, authCode string) (*oauth2.Token, error) {
	config, err := ReadGoogleConfig()
	if err != nil {
		return nil, err
	}

	tok, err := config.Exchange(ctx, authCode, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// GetGoogleAuthURL returns the URL where the user can allow Ordena access to the calendar
func GetGoogleAuthURL(stateToken string) (string, error) {
	config, err := ReadGoogleConfig()
	if err != nil {
		return "", err
	}

	return config.AuthCodeURL(stateToken, oauth2.AccessTypeOffline), nil
}
