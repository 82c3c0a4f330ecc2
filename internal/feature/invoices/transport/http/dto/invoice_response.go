package dto

import (
	"time"

	"fluxfinance/internal/feature/invoices/domain/entity"
)

// InvoiceRes is the JSON representation of a purchase invoice.
type InvoiceRes struct {
	ID            uint      `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	Quantity      float64   `json:"quantity"`
	PaymentMethod string    `json:"payment_method"`
	Currency      string    `json:"currency"`
	VATPercentage float64   `json:"vat_percentage"`
	Price         float64   `json:"price"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateInvoiceRes is returned after a successful create.
type CreateInvoiceRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

// ErrorRes is the body of every failed invoice request.
type ErrorRes struct {
	Error string `json:"error"`
}

// FromEntity converts an entity into its JSON form.
func FromEntity(inv entity.PurchaseInvoice) InvoiceRes {
	return InvoiceRes{
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

// FromEntities converts a list, never returning nil so the JSON is [] rather than null.
func FromEntities(invs []entity.PurchaseInvoice) []InvoiceRes {
	out := make([]InvoiceRes, 0, len(invs))
	for _, inv := range invs {
		out = append(out, FromEntity(inv))
	}
	return out
}
