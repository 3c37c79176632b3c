package dto

import "TRAVBUD_BACK-END/internal/models"

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is returned after a successful login. The refresh token is
// only sent as a cookie.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// RefreshResponse carries a freshly issued access token
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// GoogleLoginResponse represents the response for Google login initiation
type GoogleLoginResponse struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}
