// Package config は環境変数（と存在すれば.env）からアプリケーション設定を読み込みます。
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// minSecretLength は本番環境で要求するSESSION_SECRETの最低長です。
	minSecretLength = 32
)

// Config はアプリケーション全体の設定です。
type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"development"`
	Port     string `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver      string `env:"DB_DRIVER"      envDefault:"sqlite"`
	DBPath        string `env:"DB_PATH"        envDefault:"db/fluxfinance.db"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// RedisAddrが空の場合はRedisを使わずに動作します。
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL"             envDefault:"12h"`
	PendingTTL    time.Duration `env:"PENDING_DESTINATION_TTL" envDefault:"10m"`
	CookieSecure  bool          `env:"COOKIE_SECURE"           envDefault:"false"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`

	ProtectedPrefixes  []string `env:"PROTECTED_PREFIXES"   envDefault:"/invoices,/purchase-invoices,/sales" envSeparator:","`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:8080"               envSeparator:","`

	SignInRateLimit  int           `env:"SIGNIN_RATE_LIMIT"  envDefault:"10"`
	SignInRateWindow time.Duration `env:"SIGNIN_RATE_WINDOW" envDefault:"1m"`
	InvoiceCacheTTL  time.Duration `env:"INVOICE_CACHE_TTL"  envDefault:"5m"`
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction, "test":
	default:
		return fmt.Errorf("APP_ENV must be development, production or test, got %q", c.AppEnv)
	}
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.SessionTTL <= 0 || c.PendingTTL <= 0 {
		return errors.New("SESSION_TTL and PENDING_DESTINATION_TTL must be positive")
	}

	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		c.SessionSecret = secret
		slog.Warn("SESSION_SECRET is not set; using a random secret. Pending destinations will not survive a restart.")
	} else if c.IsProduction() && len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSecretLength)
	}
	return nil
}

// IsDevelopment reports whether error details may be shown to users.
func (c *Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

func randomSecret() (string, error) {
	b := make([]byte, minSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
