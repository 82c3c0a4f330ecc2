package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"fluxfinance/internal/app/di"
	"fluxfinance/internal/app/router"
	authadapters "fluxfinance/internal/feature/auth/adapters"
	authhandler "fluxfinance/internal/feature/auth/transport/handler"
	authusecase "fluxfinance/internal/feature/auth/usecase"
	invoicehandler "fluxfinance/internal/feature/invoices/transport/handler"
	invoiceusecase "fluxfinance/internal/feature/invoices/usecase"
	"fluxfinance/internal/platform/config"
	"fluxfinance/internal/platform/cookie"
	infradb "fluxfinance/internal/platform/db"
	"fluxfinance/internal/platform/gate"
	apphttp "fluxfinance/internal/platform/http"
	"fluxfinance/internal/platform/http/handler"
	"fluxfinance/internal/platform/logging"
	"fluxfinance/internal/platform/pending"
	infraredis "fluxfinance/internal/platform/redis"
	"fluxfinance/internal/platform/view"
)

// sessionPurgeInterval は期限切れセッションを掃除する間隔です。
const sessionPurgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)
	slog.SetDefault(logger)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.OpenDB(infradb.Config{Driver: cfg.DBDriver, Path: cfg.DBPath, DSN: cfg.DatabaseURL})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if cfg.RunMigrations {
		if err := infradb.Migrate(db); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.RedisAddr != "" {
		tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	invoiceRepo := di.NewInvoiceRepository(rdb, db, cfg.InvoiceCacheTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, cfg.SessionTTL)
	invoiceUC := invoiceusecase.NewInvoiceUsecase(invoiceRepo)

	// Cookie / pending destination
	cookies := cookie.NewManager(cfg.CookieDomain, cfg.CookieSecure)
	tracker := pending.NewTracker(cfg.SessionSecret, cfg.PendingTTL, cookies)

	// Handler
	checks := map[string]handler.Check{
		"db": func(context.Context) error { return infradb.Ping(db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Auth:     authhandler.NewAuthHandler(authUC, tracker, cookies),
		Invoices: invoicehandler.NewInvoiceHandler(invoiceUC),
		Health:   handler.NewHealthHandler(checks),
	}

	templates, err := view.Load()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// ルータ生成
	r := router.NewRouter(handlers, router.Options{
		Development:        cfg.IsDevelopment(),
		Logger:             logger,
		Templates:          templates,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Classifier:         gate.NewClassifier(cfg.ProtectedPrefixes...),
		Markers:            cookies,
		Sessions:           authUC,
		Pending:            tracker,
		SignInLimiter:      di.NewSignInLimiter(rdb, cfg.SignInRateLimit, cfg.SignInRateWindow),
		SignInWindow:       cfg.SignInRateWindow,
	})

	go purgeExpiredSessions(ctx, authUC, sessionPurgeInterval)

	if err := apphttp.Run(ctx, apphttp.NewServer(cfg.Addr(), r), apphttp.DefaultShutdownTimeout); err != nil {
		slog.Error("http server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// purgeExpiredSessions は期限切れセッションを定期的に削除します。
// Redisストアでは期限切れキーが自動で消えるため常に0件になります。
func purgeExpiredSessions(ctx context.Context, sessions sessionPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}
