// Package adapters provides repository implementations for the purchase invoice feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fluxfinance/internal/feature/invoices/domain"
	"fluxfinance/internal/feature/invoices/domain/entity"
	"fluxfinance/internal/feature/invoices/usecase"
)

type invoiceGorm struct {
	db *gorm.DB
}

var _ usecase.InvoiceRepository = (*invoiceGorm)(nil)

// NewInvoiceRepository creates a gorm-backed purchase invoice repository.
func NewInvoiceRepository(db *gorm.DB) *invoiceGorm {
	return &invoiceGorm{db: db}
}

// Create inserts a single row and copies the generated ID and timestamp back.
func (r *invoiceGorm) Create(ctx context.Context, invoice *entity.PurchaseInvoice) error {
	model := InvoiceModelFromEntity(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	invoice.ID = model.ID
	invoice.CreatedAt = model.CreatedAt
	return nil
}

// List returns every invoice ordered by date, newest first.
func (r *invoiceGorm) List(ctx context.Context) ([]entity.PurchaseInvoice, error) {
	var models []PurchaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PurchaseInvoice, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out, nil
}

// FindByID retrieves one invoice.
func (r *invoiceGorm) FindByID(ctx context.Context, id uint) (*entity.PurchaseInvoice, error) {
	var model PurchaseInvoiceModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	inv := model.ToEntity()
	return &inv, nil
}
