// Package db はGORM接続の確立とスキーマのマイグレーションを担当します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authadapters "fluxfinance/internal/feature/auth/adapters"
	"fluxfinance/internal/feature/auth/domain/entity"
	invoiceadapters "fluxfinance/internal/feature/invoices/adapters"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// DefaultSQLitePath は DB_PATH 未設定時のSQLiteファイルの場所です。
	DefaultSQLitePath = "db/fluxfinance.db"

	defaultConnectTimeout = 60 * time.Second
	defaultRetryInterval  = 3 * time.Second
)

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver string // sqlite | postgres
	Path   string // SQLiteファイルパス
	DSN    string // PostgreSQL接続文字列
}

// Opener はダイアレクタから接続を開く関数です。テストで差し替えます。
type Opener func(dialector gorm.Dialector) (*gorm.DB, error)

// Dialector は設定に応じたGORMダイアレクタを返します。
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		return sqlite.Open(path), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// GormConfig はアプリケーション共通のGORM設定を返します。
// 重複キー判定のためTranslateErrorを有効にし、SQLログはslog経由で警告以上のみ出力します。
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// OpenDB は接続を確立します。PostgreSQLは起動待ちのため60秒間リトライします。
func OpenDB(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "" || cfg.Driver == DriverSQLite {
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
	}
	opener := func(d gorm.Dialector) (*gorm.DB, error) {
		return gorm.Open(d, GormConfig())
	}
	return ConnectWithRetry(dialector, defaultConnectTimeout, defaultRetryInterval, opener)
}

// ConnectWithRetry はタイムアウトまで一定間隔で接続を試みます。
func ConnectWithRetry(dialector gorm.Dialector, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dialector)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Migrate はすべてのテーブルを作成・更新します（users, sessions, purchase_invoices）。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&authadapters.SessionModel{},
		&invoiceadapters.PurchaseInvoiceModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Ping は接続が生きているかを確認します。ヘルスチェックから呼ばれます。
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func ensureDir(path string) error {
	if path == "" {
		path = DefaultSQLitePath
	}
	if path == ":memory:" || filepath.Dir(path) == "." {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
