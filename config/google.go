package config

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"notedeck/utils"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func LoadGoogleConfig() GoogleConfig {
	return GoogleConfig{
		ClientID:     utils.GetEnvAsString("GOOGLE_CLIENT_ID", ""),
		ClientSecret: utils.GetEnvAsString("GOOGLE_CLIENT_SECRET", ""),
		RedirectURL:  utils.GetEnvAsString("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
	}
}

// OAuthConfig builds the OAuth2 config for the Google sign-in code flow.
func (g GoogleConfig) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}
