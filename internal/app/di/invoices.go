package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	invoiceadapters "fluxfinance/internal/feature/invoices/adapters"
	"fluxfinance/internal/feature/invoices/usecase"
	"fluxfinance/internal/platform/cache"
)

// NewInvoiceRepository creates the purchase invoice repository.
// Reads go through the Redis cache when rdb is non-nil; the decorator is a
// pass-through otherwise.
func NewInvoiceRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) usecase.InvoiceRepository {
	return cache.NewCachingInvoiceRepository(rdb, ttl, invoiceadapters.NewInvoiceRepository(db), "purchase_invoices")
}
