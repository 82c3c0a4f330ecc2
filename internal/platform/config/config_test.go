package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(nil)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "db/fluxfinance.db", cfg.DBPath)
	assert.True(t, cfg.RunMigrations)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.PendingTTL)
	assert.Equal(t, []string{"/invoices", "/purchase-invoices", "/sales"}, cfg.ProtectedPrefixes)
	assert.Equal(t, 10, cfg.SignInRateLimit)
	assert.Equal(t, time.Minute, cfg.SignInRateWindow)
	assert.Equal(t, 5*time.Minute, cfg.InvoiceCacheTTL)
	assert.Len(t, cfg.SessionSecret, 2*minSecretLength, "a random secret is generated in development")
}

func TestLoadFrom_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{
		"APP_ENV":            "Production",
		"PORT":               "3000",
		"DB_DRIVER":          "postgres",
		"DATABASE_URL":       "postgres://app@localhost/flux",
		"REDIS_ADDR":         "localhost:6379",
		"REDIS_DB":           "2",
		"SESSION_SECRET":     strings.Repeat("s", 40),
		"SESSION_TTL":        "30m",
		"COOKIE_SECURE":      "true",
		"PROTECTED_PREFIXES": "/invoices,/reports",
		"SIGNIN_RATE_LIMIT":  "3",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"/invoices", "/reports"}, cfg.ProtectedPrefixes)
	assert.Equal(t, 3, cfg.SignInRateLimit)
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{name: "bad duration", vars: map[string]string{"SESSION_TTL": "soon"}, wantErr: "parse env"},
		{name: "bad int", vars: map[string]string{"REDIS_DB": "x"}, wantErr: "parse env"},
		{name: "unknown env", vars: map[string]string{"APP_ENV": "staging"}, wantErr: "APP_ENV"},
		{name: "unknown driver", vars: map[string]string{"DB_DRIVER": "mysql"}, wantErr: "DB_DRIVER"},
		{name: "postgres without url", vars: map[string]string{"DB_DRIVER": "postgres"}, wantErr: "DATABASE_URL"},
		{name: "zero ttl", vars: map[string]string{"SESSION_TTL": "0s"}, wantErr: "must be positive"},
		{name: "production without secret", vars: map[string]string{"APP_ENV": "production"}, wantErr: "SESSION_SECRET is required"},
		{name: "production short secret", vars: map[string]string{"APP_ENV": "production", "SESSION_SECRET": "short"}, wantErr: "at least"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFrom(tt.vars)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFrom_ExplicitSecretKept(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{"SESSION_SECRET": "dev-secret"})
	require.NoError(t, err)
	assert.Equal(t, "dev-secret", cfg.SessionSecret)
}
