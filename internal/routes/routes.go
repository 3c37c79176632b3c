package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/handlers"
	"TRAVBUD_BACK-END/internal/middleware"
	"TRAVBUD_BACK-END/internal/models"
	"TRAVBUD_BACK-END/internal/utils"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Trips         *handlers.TripsHandler
	Reviews       *handlers.ReviewsHandler
	Explorer      *handlers.ExplorerHandler
	Notifications *handlers.NotificationsHandler
	Health        *handlers.HealthHandler
}

// SetupRoutes configures all application routes. users resolves the account
// behind each access token.
func SetupRoutes(h Handlers, users middleware.UserLoader, cfg *config.Config) http.Handler {
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.RequestLogger)
	mux.Use(middleware.Recovery)
	mux.Use(middleware.PrometheusMetrics)

	secret := cfg.JWT.AccessSecret
	anyRole := middleware.Guard(users, secret)
	guard := func(roles ...models.Role) func(http.Handler) http.Handler {
		return middleware.Guard(users, secret, roles...)
	}
	admin := guard(models.RoleAdmin)

	// Health check routes
	mux.Get("/health", h.Health.HealthCheck)
	mux.Get("/health/live", h.Health.LivenessCheck)
	mux.Get("/health/ready", h.Health.ReadinessCheck)

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(cfg.RateLimit)).Post("/login", h.Auth.Login)
			r.With(middleware.RateLimit(cfg.RateLimit)).Post("/refresh-token", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/google/login", h.Auth.GoogleLogin)
			r.Get("/google/callback", h.Auth.GoogleCallback)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.Users.Register)
			r.With(anyRole).Get("/me", h.Users.Me)
			r.With(anyRole).Patch("/update/me", h.Users.UpdateMe)
			r.With(anyRole).Patch("/update/password", h.Users.ChangePassword)
			r.With(anyRole).Delete("/me", h.Users.DeleteMe)

			r.With(admin).Get("/admin/all-users", h.Users.ListUsers)
			r.With(admin).Patch("/admin/{id}", h.Users.AdminUpdate)
			r.With(admin).Delete("/admin/{id}", h.Users.AdminDelete)
			r.With(anyRole).Get("/{id}", h.Users.GetUser)
		})

		r.Route("/trips", func(r chi.Router) {
			owners := guard(models.RoleUser, models.RoleGuide)
			managers := guard(models.RoleUser, models.RoleGuide, models.RoleAdmin)

			r.Get("/", h.Trips.ListTrips)
			r.With(owners).Post("/register", h.Trips.CreateTrip)
			r.With(managers).Get("/all-my-trips", h.Trips.ListMyTrips)
			r.With(anyRole).Get("/all-my-join-requests", h.Trips.JoinRequests)
			r.With(owners).Patch("/update/{id}", h.Trips.UpdateTrip)
			r.With(anyRole).Post("/request/{tripId}", h.Trips.RequestToJoin)
			r.With(anyRole).Patch("/cancel/{id}", h.Trips.CancelJoinRequest)
			r.With(managers).Post("/approve", h.Trips.ApproveJoinRequest)
			r.With(managers).Patch("/cancel-trip/{id}", h.Trips.CancelTrip)

			r.With(admin).Get("/admin/all-trips", h.Trips.ListTrips)
			r.With(admin).Patch("/admin/{id}", h.Trips.UpdateTrip)
			r.With(admin).Delete("/admin/{id}", h.Trips.DeleteTrip)

			r.Get("/{id}", h.Trips.TripDetail)
			r.With(owners).Delete("/{id}", h.Trips.DeleteTrip)
		})

		r.Route("/website-reviews", func(r chi.Router) {
			r.Get("/", h.Reviews.ListReviews)
			r.Get("/{id}", h.Reviews.GetReview)
			r.With(anyRole).Post("/", h.Reviews.CreateReview)
			r.With(anyRole).Patch("/{id}", h.Reviews.UpdateReview)
			r.With(anyRole).Delete("/{id}", h.Reviews.DeleteReview)
		})

		r.Route("/explorer", func(r chi.Router) {
			r.Get("/home", h.Explorer.Home)
			r.Post("/subscribe", h.Explorer.Subscribe)
			r.Delete("/subscribe", h.Explorer.Unsubscribe)
			r.With(admin).Get("/subscribers", h.Explorer.Subscribers)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(anyRole)
			r.Get("/", h.Notifications.ListNotifications)
			r.Patch("/read-all", h.Notifications.MarkAllRead)
			r.Patch("/{id}/read", h.Notifications.MarkRead)
		})
	})

	// Root route
	mux.Get("/", rootHandler)
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, r, apperr.NotFound("No route found"))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONResponse(w, http.StatusMethodNotAllowed, utils.ErrorEnvelope{Message: "Method not allowed"})
	})

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, "Welcome to TravBud Backend", nil)
}
