// Package usecase implements the purchase invoice business logic.
package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"

	"fluxfinance/internal/feature/invoices/domain"
	"fluxfinance/internal/feature/invoices/domain/entity"
)

const (
	// dateLayout is the only accepted invoice date format.
	dateLayout = "2006-01-02"

	// maxQuantity and maxPrice keep price*quantity*(1+VAT) far from float64 overflow.
	maxQuantity = 1e9
	maxPrice    = 1e12
)

// InvoiceRepository abstracts purchase invoice persistence.
type InvoiceRepository interface {
	// Create inserts the invoice and sets its ID and CreatedAt.
	Create(ctx context.Context, invoice *entity.PurchaseInvoice) error
	// List returns every invoice, newest date first, then highest ID first.
	List(ctx context.Context) ([]entity.PurchaseInvoice, error)
	// FindByID returns domain.ErrInvoiceNotFound when the ID is unknown.
	FindByID(ctx context.Context, id uint) (*entity.PurchaseInvoice, error)
}

type invoiceUsecase struct {
	repo InvoiceRepository
}

// NewInvoiceUsecase creates the purchase invoice usecase.
func NewInvoiceUsecase(repo InvoiceRepository) *invoiceUsecase {
	return &invoiceUsecase{repo: repo}
}

// Create validates the draft, computes the total and stores a new invoice.
func (u *invoiceUsecase) Create(ctx context.Context, draft entity.InvoiceDraft) (*entity.PurchaseInvoice, error) {
	normalized, err := validateDraft(draft)
	if err != nil {
		return nil, err
	}
	invoice := &entity.PurchaseInvoice{
		InvoiceNumber: normalized.InvoiceNumber,
		Date:          normalized.Date,
		Description:   normalized.Description,
		Quantity:      normalized.Quantity,
		PaymentMethod: normalized.PaymentMethod,
		Currency:      normalized.Currency,
		VATPercentage: normalized.VATPercentage,
		Price:         normalized.Price,
		Total:         CalculateTotal(normalized.Price, normalized.Quantity, normalized.VATPercentage),
	}
	if !isFinite(invoice.Total) {
		return nil, fmt.Errorf("%w: total is out of range", domain.ErrInvalidInvoice)
	}
	if err := u.repo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create purchase invoice: %w", err)
	}
	return invoice, nil
}

// List returns all invoices.
func (u *invoiceUsecase) List(ctx context.Context) ([]entity.PurchaseInvoice, error) {
	invoices, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase invoices: %w", err)
	}
	return invoices, nil
}

// Get returns one invoice.
func (u *invoiceUsecase) Get(ctx context.Context, id uint) (*entity.PurchaseInvoice, error) {
	return u.repo.FindByID(ctx, id)
}

func validateDraft(d entity.InvoiceDraft) (entity.InvoiceDraft, error) {
	d.InvoiceNumber = strings.TrimSpace(d.InvoiceNumber)
	d.Description = strings.TrimSpace(d.Description)
	d.Date = strings.TrimSpace(d.Date)
	d.Currency = strings.ToUpper(strings.TrimSpace(d.Currency))

	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInvoice, fmt.Sprintf(format, args...))
	}

	switch {
	case !isFinite(d.Quantity), !isFinite(d.Price), !isFinite(d.VATPercentage):
		return d, invalid("quantity, price and VAT percentage must be finite numbers")
	case d.InvoiceNumber == "":
		return d, invalid("invoice number is required")
	case d.Description == "":
		return d, invalid("description is required")
	case d.Quantity <= 0:
		return d, invalid("quantity must be greater than 0")
	case d.Quantity > maxQuantity:
		return d, invalid("quantity must not exceed %g", float64(maxQuantity))
	case d.Price < 0:
		return d, invalid("price must not be negative")
	case d.Price > maxPrice:
		return d, invalid("price must not exceed %g", float64(maxPrice))
	case d.VATPercentage < 0 || d.VATPercentage > 100:
		return d, invalid("VAT percentage must be between 0 and 100")
	case !d.PaymentMethod.IsValid():
		return d, invalid("unknown payment method %q", d.PaymentMethod)
	}
	if _, err := time.Parse(dateLayout, d.Date); err != nil {
		return d, invalid("date must be formatted as YYYY-MM-DD")
	}
	if _, err := currency.ParseISO(d.Currency); err != nil {
		return d, invalid("unknown currency %q", d.Currency)
	}
	return d, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
