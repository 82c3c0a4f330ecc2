// Command seed creates the schema and provisions the initial admin account.
// Running it again is a no-op.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"

	authadapters "fluxfinance/internal/feature/auth/adapters"
	"fluxfinance/internal/feature/auth/domain"
	authusecase "fluxfinance/internal/feature/auth/usecase"
	"fluxfinance/internal/platform/config"
	infradb "fluxfinance/internal/platform/db"
	"fluxfinance/internal/platform/logging"
)

type seedConfig struct {
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"    envDefault:"admin@fluxfinance.com"`
	AdminName     string `env:"SEED_ADMIN_NAME"     envDefault:"Admin"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"password123"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.AppEnv, cfg.LogLevel))

	var seed seedConfig
	if err := env.Parse(&seed); err != nil {
		slog.Error("invalid seed configuration", "error", err)
		os.Exit(1)
	}

	db, err := infradb.OpenDB(infradb.Config{Driver: cfg.DBDriver, Path: cfg.DBPath, DSN: cfg.DatabaseURL})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := infradb.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), authusecase.NewAuthUsecase(
		authadapters.NewUserRepository(db),
		authadapters.NewSessionRepository(db),
		cfg.SessionTTL,
	), seed); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

type registrar interface {
	Register(ctx context.Context, email, name, password string) error
}

func run(ctx context.Context, users registrar, seed seedConfig) error {
	err := users.Register(ctx, seed.AdminEmail, seed.AdminName, seed.AdminPassword)
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		slog.Info("admin user already exists", "email", seed.AdminEmail)
		return nil
	case err != nil:
		return err
	}
	slog.Info("seeded admin user", "email", seed.AdminEmail)
	return nil
}
