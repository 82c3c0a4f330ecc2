package adapters

import (
	"time"

	"fluxfinance/internal/feature/invoices/domain/entity"
)

// PurchaseInvoiceModel is the GORM model for the purchase_invoices table.
type PurchaseInvoiceModel struct {
	ID            uint      `gorm:"primaryKey"`
	InvoiceNumber string    `gorm:"size:64;not null;index"`
	Date          string    `gorm:"size:10;not null;index"` // YYYY-MM-DD sorts chronologically
	Description   string    `gorm:"not null"`
	Quantity      float64   `gorm:"not null"`
	PaymentMethod string    `gorm:"size:32;not null"`
	Currency      string    `gorm:"size:3;not null"`
	VATPercentage float64   `gorm:"column:vat_percentage;not null"`
	Price         float64   `gorm:"not null"`
	Total         float64   `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (PurchaseInvoiceModel) TableName() string {
	return "purchase_invoices"
}

// ToEntity converts the GORM model to a domain entity.
func (m *PurchaseInvoiceModel) ToEntity() entity.PurchaseInvoice {
	return entity.PurchaseInvoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		Date:          m.Date,
		Description:   m.Description,
		Quantity:      m.Quantity,
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Currency:      m.Currency,
		VATPercentage: m.VATPercentage,
		Price:         m.Price,
		Total:         m.Total,
		CreatedAt:     m.CreatedAt,
	}
}

// InvoiceModelFromEntity converts a domain entity to a GORM model.
func InvoiceModelFromEntity(inv *entity.PurchaseInvoice) *PurchaseInvoiceModel {
	return &PurchaseInvoiceModel{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date,
		Description:   inv.Description,
		Quantity:      inv.Quantity,
		PaymentMethod: string(inv.PaymentMethod),
		Currency:      inv.Currency,
		VATPercentage: inv.VATPercentage,
		Price:         inv.Price,
		Total:         inv.Total,
		CreatedAt:     inv.CreatedAt,
	}
}
