// @title TravBud Backend API
// @version 1.0
// @description TravBud Backend API for travel buddy matching: trips, join requests, reviews and the newsletter
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	_ "TRAVBUD_BACK-END/docs" // This is required for swagger
	"TRAVBUD_BACK-END/internal/cache"
	"TRAVBUD_BACK-END/internal/config"
	"TRAVBUD_BACK-END/internal/handlers"
	"TRAVBUD_BACK-END/internal/logger"
	"TRAVBUD_BACK-END/internal/mailer"
	"TRAVBUD_BACK-END/internal/repository"
	"TRAVBUD_BACK-END/internal/routes"
	"TRAVBUD_BACK-END/internal/services"
	"TRAVBUD_BACK-END/internal/storage"
	"TRAVBUD_BACK-END/internal/utils"
)

func main() {
	if err := run(); err != nil {
		logger.Log.Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.App.Name, cfg.IsDevelopment()); err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		logger.Log.Warn(w)
	}
	utils.SetDevelopment(cfg.IsDevelopment())

	// cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---

	pool, err := repository.NewPostgresPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	logger.Log.Info("Connected to Postgres", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))

	mongoClient, err := repository.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Log.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()
	subscribers := repository.NewSubscriberRepository(mongoClient.Database(cfg.Mongo.Database))
	if err := subscribers.EnsureIndexes(ctx); err != nil {
		return err
	}

	health := map[string]handlers.Pinger{
		"postgres": pool.Ping,
		"mongo":    func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
	}

	// the home feed works without Redis, uncached
	var homeCache services.Cache
	if rc, err := cache.Connect(ctx, cfg.Redis); err != nil {
		logger.Log.Warn("Redis unavailable, explorer home will not be cached", zap.Error(err))
	} else {
		defer rc.Close()
		homeCache = rc
		health["redis"] = rc.Ping
	}

	var assets services.AssetStore = storage.Nop{}
	if cfg.IsCloudinaryConfigured() {
		cld, err := storage.NewCloudinary(cfg.Cloudinary)
		if err != nil {
			return err
		}
		assets = cld
	}

	var mail services.Mailer = mailer.Nop{}
	if cfg.IsMailjetConfigured() {
		mail = mailer.NewMailjet(cfg.Mailjet)
	}

	var google services.GoogleIdentity
	if cfg.IsGoogleOAuthConfigured() {
		google = services.NewGoogleOAuth(cfg.GoogleOAuth)
	}

	users := repository.NewUserRepository(pool)
	trips := repository.NewTripRepository(pool)
	reviews := repository.NewReviewRepository(pool)
	notifications := repository.NewNotificationRepository(pool)

	// --- Services ---

	notifier := services.NewNotificationService(notifications)
	authSvc := services.NewAuthService(users, cfg.JWT, google)
	userSvc := services.NewUserService(users, trips, assets)
	tripSvc := services.NewTripService(trips, users, assets, notifier, services.TripOptions{
		EnforceCapacity: cfg.Trips.EnforceCapacity,
		UnverifiedQuota: cfg.Trips.UnverifiedTripQuota,
		HomeCache:       homeCache,
	})
	reviewSvc := services.NewReviewService(reviews)
	explorerSvc := services.NewExplorerService(trips, reviews, subscribers, homeCache, mail, cfg.Redis.HomeCacheTTL)

	if err := userSvc.EnsureSuperAdmin(ctx, cfg.SuperAdmin); err != nil {
		return err
	}

	// --- HTTP Handlers ---

	authHandler := handlers.NewAuthHandler(authSvc, !cfg.IsDevelopment(), cfg.App.FrontendURL)
	router := routes.SetupRoutes(routes.Handlers{
		Auth:          authHandler,
		Users:         handlers.NewUserHandler(userSvc, assets, authHandler, cfg.Server.MaxUploadBytes),
		Trips:         handlers.NewTripsHandler(tripSvc, assets, cfg.Server.MaxUploadBytes),
		Reviews:       handlers.NewReviewsHandler(reviewSvc),
		Explorer:      handlers.NewExplorerHandler(explorerSvc),
		Notifications: handlers.NewNotificationsHandler(notifier),
		Health:        handlers.NewHealthHandler(health),
	}, users, cfg)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	// --- HTTP Server + Graceful Shutdown ---

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		logger.Log.Info("Shutting down server...")
	case listenErr = <-serveErr:
		logger.Log.Error("HTTP server failed", zap.Error(listenErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Warn("Server shutdown error", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
	return listenErr
}
