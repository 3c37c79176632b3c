package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Env: EnvDevelopment},
		Database: DatabaseConfig{Password: "secret"},
		JWT:      JWTConfig{AccessSecret: "access", RefreshSecret: "refresh"},
		Trips:    TripsConfig{UnverifiedTripQuota: 5},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }, wantErr: "DB_PASSWORD"},
		{name: "missing secrets", mutate: func(c *Config) { c.JWT.RefreshSecret = "" }, wantErr: "JWT_REFRESH_SECRET are required"},
		{name: "shared secret", mutate: func(c *Config) { c.JWT.RefreshSecret = "access" }, wantErr: "must differ"},
		{name: "unknown env", mutate: func(c *Config) { c.App.Env = "staging" }, wantErr: "APP_ENV"},
		{name: "admin without password", mutate: func(c *Config) { c.SuperAdmin.Email = "root@travbud.io" }, wantErr: "SUPER_ADMIN_PASSWORD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_INT", "nope")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, []string{"a", "b", "c"}, getStringSliceEnv("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getStringSliceEnv("TEST_SLICE_MISSING", []string{"x"}))
	assert.Equal(t, 90*time.Second, getDurationEnv("TEST_DURATION", time.Second))
	assert.Equal(t, 7, getIntEnv("TEST_INT", 7))
	assert.False(t, getBoolEnv("TEST_BOOL", true))
}

func TestGetDSN(t *testing.T) {
	c := &Config{Database: DatabaseConfig{
		User: "u", Password: "p", Host: "db", Port: "5432", Name: "travbud", SSLMode: "disable",
		ConnTimeout: 10 * time.Second,
	}}
	assert.Equal(t, "postgres://u:p@db:5432/travbud?sslmode=disable&connect_timeout=10", c.GetDSN())
}
