package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Cloudinary  CloudinaryConfig
	Mailjet     MailjetConfig
	GoogleOAuth GoogleOAuthConfig
	CORS        CORSConfig
	Trips       TripsConfig
	SuperAdmin  SuperAdminConfig
	RateLimit   RateLimitConfig
}

type AppConfig struct {
	Name string
	Env  string
	// FrontendURL receives the Google sign-in redirect.
	FrontendURL string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	ConnTimeout time.Duration
}

// JWTConfig holds token secrets. Access and refresh tokens never share a secret.
type JWTConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	HomeCacheTTL time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type MailjetConfig struct {
	APIKeyPublic  string
	APIKeyPrivate string
	FromEmail     string
	FromName      string
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// TripsConfig holds the trip business rules that are switchable per deployment.
type TripsConfig struct {
	EnforceCapacity     bool
	UnverifiedTripQuota int
}

// SuperAdminConfig seeds an admin account on boot when Email is set.
type SuperAdminConfig struct {
	Name     string
	Email    string
	Password string
}

type RateLimitConfig struct {
	AuthPerMinute float64
	AuthBurst     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		// a missing file is fine, the environment may already be populated
		_ = godotenv.Load(".env")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "travbud-backend"),
			Env:         getEnv("APP_ENV", EnvDevelopment),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "5000"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxUploadBytes:  int64(getIntEnv("SERVER_MAX_UPLOAD_MB", 20)) << 20,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "travbud"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    int32(getIntEnv("DB_MAX_CONNS", 10)),
			MinConns:    int32(getIntEnv("DB_MIN_CONNS", 0)),
			MaxLifetime: getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout: getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret:    getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret:   getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenTTL:  getDurationEnv("JWT_ACCESS_TTL", 24*time.Hour),
			RefreshTokenTTL: getDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "travbud"),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			HomeCacheTTL: getDurationEnv("EXPLORER_HOME_CACHE_TTL", time.Minute),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "travbud"),
		},
		Mailjet: MailjetConfig{
			APIKeyPublic:  getEnv("MAILJET_API_KEY_PUBLIC", ""),
			APIKeyPrivate: getEnv("MAILJET_API_KEY_PRIVATE", ""),
			FromEmail:     getEnv("MAILJET_FROM_EMAIL", ""),
			FromName:      getEnv("MAILJET_FROM_NAME", "TravBud Team"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5000/api/v1/auth/google/callback"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Trips: TripsConfig{
			EnforceCapacity:     getBoolEnv("TRIP_ENFORCE_CAPACITY", true),
			UnverifiedTripQuota: getIntEnv("TRIP_UNVERIFIED_QUOTA", 5),
		},
		SuperAdmin: SuperAdminConfig{
			Name:     getEnv("SUPER_ADMIN_NAME", "Super Admin"),
			Email:    getEnv("SUPER_ADMIN_EMAIL", ""),
			Password: getEnv("SUPER_ADMIN_PASSWORD", ""),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getFloatEnv("AUTH_RATE_PER_MINUTE", 30),
			AuthBurst:     getIntEnv("AUTH_RATE_BURST", 10),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required"))
	} else if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction))
	}
	if c.Trips.UnverifiedTripQuota < 0 {
		errs = append(errs, errors.New("TRIP_UNVERIFIED_QUOTA must not be negative"))
	}
	if c.SuperAdmin.Email != "" && c.SuperAdmin.Password == "" {
		errs = append(errs, errors.New("SUPER_ADMIN_PASSWORD is required when SUPER_ADMIN_EMAIL is set"))
	}
	return errors.Join(errs...)
}

// Warnings lists optional integrations that are not configured.
func (c *Config) Warnings() []string {
	var w []string
	if !c.IsCloudinaryConfigured() {
		w = append(w, "Cloudinary credentials not configured. Photo uploads will be rejected.")
	}
	if !c.IsMailjetConfigured() {
		w = append(w, "Mailjet credentials not configured. Newsletter welcome emails will not be sent.")
	}
	if !c.IsGoogleOAuthConfigured() {
		w = append(w, "Google OAuth credentials not configured. Google login will not work.")
	}
	return w
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == EnvDevelopment
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

func (c *Config) IsCloudinaryConfigured() bool {
	return c.Cloudinary.CloudName != "" && c.Cloudinary.APIKey != "" && c.Cloudinary.APISecret != ""
}

func (c *Config) IsMailjetConfigured() bool {
	return c.Mailjet.APIKeyPublic != "" && c.Mailjet.APIKeyPrivate != "" && c.Mailjet.FromEmail != ""
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
