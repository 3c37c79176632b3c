package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/dto"
	"TRAVBUD_BACK-END/internal/middleware"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/utils"
)

const (
	oauthStateCookie = "oauthState"
	oauthStateTTL    = 10 * time.Minute
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth        *services.AuthService
	secure      bool
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler instance. secure marks cookies
// Secure and SameSite=None for cross-site frontends served over HTTPS.
func NewAuthHandler(auth *services.AuthService, secure bool, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: auth, secure: secure, frontendURL: frontendURL}
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if h.secure {
		c.SameSite = http.SameSiteNoneMode
	}
	switch {
	case ttl > 0:
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	case ttl < 0:
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, s *services.Session) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, s.AccessToken, h.auth.AccessTokenTTL()))
	if s.RefreshToken != "" {
		http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, s.RefreshToken, h.auth.RefreshTokenTTL()))
	}
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, h.cookie(middleware.RefreshTokenCookie, "", -1))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with email and password. Sets accessToken and refreshToken cookies.
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "User login credentials"
// @Success 200 {object} utils.Envelope{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} utils.ErrorEnvelope "Invalid request data"
// @Failure 403 {object} utils.ErrorEnvelope "Password mismatch"
// @Failure 404 {object} utils.ErrorEnvelope "User not found"
// @Failure 422 {object} utils.ErrorEnvelope "Account blocked"
// @Failure 429 {object} utils.ErrorEnvelope "Too many requests"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	utils.WriteSuccess(w, http.StatusOK, "User is logged in successfully!", dto.LoginResponse{
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}

// RefreshToken issues a new access token
// @Summary Refresh access token
// @Description Exchange the refreshToken cookie for a new access token
// @Tags authentication
// @Produce json
// @Success 200 {object} utils.Envelope{data=dto.RefreshResponse} "Access token issued"
// @Failure 401 {object} utils.ErrorEnvelope "Missing or invalid refresh token"
// @Failure 404 {object} utils.ErrorEnvelope "User not found"
// @Router /api/v1/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(middleware.RefreshTokenCookie); err == nil {
		token = c.Value
	}

	access, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookie(middleware.AccessTokenCookie, access, h.auth.AccessTokenTTL()))
	utils.WriteSuccess(w, http.StatusOK, "Access token is retrieved successfully!", dto.RefreshResponse{AccessToken: access})
}

// Logout clears the session cookies
// @Summary Logout user
// @Tags authentication
// @Produce json
// @Success 200 {object} utils.Envelope "Logged out"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookies(w)
	utils.WriteSuccess(w, http.StatusOK, "User is logged out successfully!", nil)
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and sets a short lived state cookie
// @Tags authentication
// @Produce json
// @Success 200 {object} utils.Envelope{data=dto.GoogleLoginResponse} "Google OAuth URL"
// @Failure 404 {object} utils.ErrorEnvelope "Google sign-in not configured"
// @Router /api/v1/auth/google/login [get]
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	// state parameter for CSRF protection
	state := uuid.NewString()
	authURL, err := h.auth.GoogleAuthURL(state)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookie(oauthStateCookie, state, oauthStateTTL))
	utils.WriteSuccess(w, http.StatusOK, "Google login URL generated", dto.GoogleLoginResponse{AuthURL: authURL, State: state})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, sets session cookies and redirects to the frontend
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by /auth/google/login"
// @Success 302 "Redirect to the frontend"
// @Failure 400 {object} utils.ErrorEnvelope "Missing authorization code"
// @Failure 401 {object} utils.ErrorEnvelope "Invalid state or authorization code"
// @Failure 403 {object} utils.ErrorEnvelope "Google email not verified"
// @Router /api/v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || c.Value != state {
		utils.WriteError(w, r, apperr.Unauthorized("Invalid OAuth state"))
		return
	}
	http.SetCookie(w, h.cookie(oauthStateCookie, "", -1))

	session, err := h.auth.GoogleSignIn(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	h.setSessionCookies(w, session)
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}
