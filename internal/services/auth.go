package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/middleware"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
)

const (
	msgNotAuthorized    = "You are not authorized!"
	msgAccountNotFound  = "This user is not found!"
	msgPasswordMismatch = "Password do not matched"
)

// GoogleProfile is the identity returned by Google after the code exchange.
type GoogleProfile struct {
	Email    string
	Name     string
	Picture  string
	Verified bool
}

// GoogleIdentity exchanges an authorization code for the user's profile.
type GoogleIdentity interface {
	AuthCodeURL(state string) string
	Profile(ctx context.Context, code string) (*GoogleProfile, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
	User         *models.User `json:"user"`
}

// AuthService is the credential service: password and Google sign-in plus
// token refresh.
type AuthService struct {
	users  UserStore
	jwt    config.JWTConfig
	google GoogleIdentity
	now    Clock
}

func NewAuthService(users UserStore, jwtCfg config.JWTConfig, google GoogleIdentity) *AuthService {
	return &AuthService{users: users, jwt: jwtCfg, google: google, now: systemClock}
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	caller := models.Caller{ID: u.ID, Email: u.Email, Role: u.Role}
	access, err := middleware.GenerateToken(caller, s.jwt.AccessSecret, s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal("failed to sign access token", err)
	}
	refresh, err := middleware.GenerateToken(caller, s.jwt.RefreshSecret, s.jwt.RefreshTokenTTL)
	if err != nil {
		return nil, apperr.Internal("failed to sign refresh token", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Login checks the password and issues an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, storeErr(err, msgAccountNotFound)
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Forbidden(msgPasswordMismatch)
	}
	if user.IsBlocked() {
		return nil, apperr.ErrAccountBlocked
	}
	return s.issue(user)
}

// Refresh issues a new access token from a refresh token.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized(msgNotAuthorized)
	}
	claims, err := middleware.ValidateToken(token, s.jwt.RefreshSecret)
	if err != nil {
		return "", apperr.Unauthorized(msgNotAuthorized)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", storeErr(err, msgAccountNotFound)
	}
	if user.IsBlocked() {
		return "", apperr.ErrAccountBlocked
	}
	access, err := middleware.GenerateToken(models.Caller{ID: user.ID, Email: user.Email, Role: user.Role},
		s.jwt.AccessSecret, s.jwt.AccessTokenTTL)
	if err != nil {
		return "", apperr.Internal("failed to sign access token", err)
	}
	return access, nil
}

// GoogleAuthURL returns the consent screen URL for state.
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", apperr.New(apperr.KindNotFound, "Google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleSignIn exchanges code, then finds or creates the matching user.
// Accounts created this way are verified and have no password.
func (s *AuthService) GoogleSignIn(ctx context.Context, code string) (*Session, error) {
	if s.google == nil {
		return nil, apperr.New(apperr.KindNotFound, "Google sign-in is not configured")
	}
	if code == "" {
		return nil, apperr.Validation("Missing authorization code",
			apperr.FieldError{Field: "code", Message: "authorization code is required"})
	}
	profile, err := s.google.Profile(ctx, code)
	if err != nil {
		logger.FromContext(ctx).Warn("Google code exchange failed", zap.Error(err))
		return nil, apperr.Unauthorized("Invalid authorization code")
	}
	if !profile.Verified {
		return nil, apperr.Forbidden("Google account email is not verified")
	}

	user, err := s.users.FindByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if user.IsBlocked() {
			return nil, apperr.ErrAccountBlocked
		}
		return s.issue(user)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeErr(err, msgAccountNotFound)
	}

	now := s.now()
	user = &models.User{
		ID:               uuid.New(),
		Name:             profile.Name,
		Email:            strings.ToLower(profile.Email),
		Role:             models.RoleUser,
		Status:           models.UserActive,
		IsVerified:       true,
		Photo:            profile.Picture,
		TravelInterests:  []string{},
		VisitedCountries: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr(err, msgAccountNotFound)
	}
	logger.FromContext(ctx).Info("Created user from Google sign-in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

// Token lifetimes, used for cookie expiry.
func (s *AuthService) AccessTokenTTL() time.Duration  { return s.jwt.AccessTokenTTL }
func (s *AuthService) RefreshTokenTTL() time.Duration { return s.jwt.RefreshTokenTTL }
