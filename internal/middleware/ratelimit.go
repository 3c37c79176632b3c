package middleware

import (
	"net/http"

	"github.com/didip/tollbooth/v7"

	"TRAVBUD_BACK-END/internal/config"
)

const rateLimitedBody = `{"success":false,"message":"Too many requests, please try again later"}`

// RateLimit limits requests per client IP. Used on the credential endpoints.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(cfg.AuthPerMinute/60.0, nil)
	lmt.SetBurst(cfg.AuthBurst)
	// chimw.RealIP has already resolved the client address; forwarding
	// headers are not consulted again here.
	lmt.SetIPLookups([]string{"RemoteAddr"})
	lmt.SetMessage(rateLimitedBody)
	lmt.SetMessageContentType("application/json")

	return func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	}
}
