// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fluxfinance/internal/feature/invoices/domain/entity"
	"fluxfinance/internal/feature/invoices/usecase"
)

// DefaultInvoiceTTL is used when no positive TTL is configured.
const DefaultInvoiceTTL = 5 * time.Minute

// CachingInvoiceRepository decorates an InvoiceRepository with Redis caching.
// The list and single-invoice reads are cached; Create invalidates the list.
type CachingInvoiceRepository struct {
	inner     usecase.InvoiceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.InvoiceRepository = (*CachingInvoiceRepository)(nil)

// NewCachingInvoiceRepository decorates an InvoiceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "purchase_invoices".
func NewCachingInvoiceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.InvoiceRepository, namespace string) *CachingInvoiceRepository {
	if ttl <= 0 {
		ttl = DefaultInvoiceTTL
	}
	if namespace == "" {
		namespace = "purchase_invoices"
	}
	return &CachingInvoiceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: safe(namespace),
	}
}

// Create inserts through the inner repository and invalidates cached lists.
func (c *CachingInvoiceRepository) Create(ctx context.Context, invoice *entity.PurchaseInvoice) error {
	if err := c.inner.Create(ctx, invoice); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.deleteByPattern(ctx, c.listKey()+"*") // Best effort: the row is already stored
	return nil
}

// List returns all invoices, checking cache first then falling back to the database.
func (c *CachingInvoiceRepository) List(ctx context.Context) ([]entity.PurchaseInvoice, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()
	var out []entity.PurchaseInvoice
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID returns one invoice. Invoices are never updated, so entries only expire.
func (c *CachingInvoiceRepository) FindByID(ctx context.Context, id uint) (*entity.PurchaseInvoice, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.itemKey(id)
	var out entity.PurchaseInvoice
	if c.get(ctx, key, &out) {
		return &out, nil
	}

	inv, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, inv)
	return inv, nil
}

// get decodes a cached value into dst. A corrupted entry is deleted and reported as a miss.
func (c *CachingInvoiceRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingInvoiceRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingInvoiceRepository) listKey() string {
	return fmt.Sprintf("%s:list", c.namespace)
}

func (c *CachingInvoiceRepository) itemKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingInvoiceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
