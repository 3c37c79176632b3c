package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/repository"
	"TRAVBUD_BACK-END/internal/utils"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	msgNotAuthorized = "You are not authorized!"
	msgUserNotFound  = "This user is not found!"
	msgUserBlocked   = "This user is blocked!"
	msgRoleForbidden = "Unauthorized to access this resource for this role."
)

type callerKey struct{}

// UserLoader resolves the account behind a token.
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// WithCaller stores the authenticated identity in ctx.
func WithCaller(ctx context.Context, c models.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the identity stored by Guard.
func CallerFrom(ctx context.Context) (models.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(models.Caller)
	return c, ok
}

// bearerToken reads the access token from the Authorization header, raw or
// Bearer prefixed, and falls back to the access token cookie.
func bearerToken(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Guard authenticates the request with an access token and, when roles are
// given, requires the stored account to hold one of them. The role is read
// from the account, not the token, so demotions apply immediately.
func Guard(users UserLoader, secret string, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.WriteError(w, r, apperr.Unauthorized(msgNotAuthorized))
				return
			}
			claims, err := ValidateToken(token, secret)
			if err != nil {
				logger.FromContext(r.Context()).Debug("Rejected access token", zap.Error(err))
				utils.WriteError(w, r, apperr.Unauthorized(msgNotAuthorized))
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				utils.WriteError(w, r, apperr.NotFound(msgUserNotFound))
				return
			case err != nil:
				utils.WriteError(w, r, apperr.Internal("load caller", err))
				return
			}
			if user.IsBlocked() {
				utils.WriteError(w, r, apperr.Forbidden(msgUserBlocked))
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, user.Role) {
				utils.WriteError(w, r, apperr.Forbidden(msgRoleForbidden))
				return
			}

			caller := models.Caller{ID: user.ID, Email: user.Email, Role: user.Role}
			ctx := WithCaller(r.Context(), caller)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("user_id", user.ID.String())))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
