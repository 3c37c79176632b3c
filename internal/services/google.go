package services

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"TRAVBUD_BACK-END/internal/config"
)

// GoogleOAuth implements GoogleIdentity with the Google userinfo API.
type GoogleOAuth struct {
	oauth2Config *oauth2.Config
}

func NewGoogleOAuth(cfg config.GoogleOAuthConfig) *GoogleOAuth {
	return &GoogleOAuth{oauth2Config: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleOAuth) Profile(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return nil, err
	}
	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("google profile has no email")
	}

	verified := false
	if info.VerifiedEmail != nil {
		verified = *info.VerifiedEmail
	}
	return &GoogleProfile{
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		Verified: verified,
	}, nil
}
