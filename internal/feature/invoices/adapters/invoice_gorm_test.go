package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fluxfinance/internal/feature/invoices/domain"
	"fluxfinance/internal/feature/invoices/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&PurchaseInvoiceModel{}), "failed to migrate table")
	return db
}

func newInvoice(number, date string) *entity.PurchaseInvoice {
	return &entity.PurchaseInvoice{
		InvoiceNumber: number,
		Date:          date,
		Description:   "Printer paper",
		Quantity:      10,
		PaymentMethod: entity.PaymentCash,
		Currency:      "USD",
		VATPercentage: 10,
		Price:         4.5,
		Total:         49.5,
	}
}

func TestInvoiceGorm_Create(t *testing.T) {
	t.Parallel()

	repo := NewInvoiceRepository(setupTestDB(t))
	inv := newInvoice("INV-1", "2024-01-10")

	require.NoError(t, repo.Create(context.Background(), inv))
	assert.NotZero(t, inv.ID, "ID is not set")
	assert.False(t, inv.CreatedAt.IsZero(), "CreatedAt is not set")

	found, err := repo.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1", found.InvoiceNumber)
	assert.Equal(t, entity.PaymentCash, found.PaymentMethod)
	assert.Equal(t, "USD", found.Currency)
	assert.InDelta(t, 10.0, found.VATPercentage, 1e-9)
	assert.InDelta(t, 49.5, found.Total, 1e-9)
}

func TestInvoiceGorm_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewInvoiceRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestInvoiceGorm_List_Order(t *testing.T) {
	t.Parallel()

	repo := NewInvoiceRepository(setupTestDB(t))
	ctx := context.Background()

	for _, inv := range []*entity.PurchaseInvoice{
		newInvoice("A", "2024-01-10"),
		newInvoice("B", "2024-03-01"),
		newInvoice("C", "2024-01-10"),
		newInvoice("D", "2023-12-31"),
	} {
		require.NoError(t, repo.Create(ctx, inv))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)

	numbers := make([]string, len(list))
	for i, inv := range list {
		numbers[i] = inv.InvoiceNumber
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, numbers)
}

func TestInvoiceGorm_List_Empty(t *testing.T) {
	t.Parallel()

	list, err := NewInvoiceRepository(setupTestDB(t)).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
