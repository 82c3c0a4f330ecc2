// Package entity defines the purchase invoice domain types.
package entity

import "time"

// PaymentMethod is how a purchase invoice was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
)

// PaymentMethods lists every accepted payment method in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentCreditCard}

// IsValid reports whether p is one of PaymentMethods.
func (p PaymentMethod) IsValid() bool {
	for _, m := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}

// Label returns a human readable name for p.
func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Cash"
	case PaymentBankTransfer:
		return "Bank transfer"
	case PaymentCreditCard:
		return "Credit card"
	default:
		return string(p)
	}
}

// PurchaseInvoice is a stored purchase invoice.
type PurchaseInvoice struct {
	ID            uint
	InvoiceNumber string
	Date          string // YYYY-MM-DD
	Description   string
	Quantity      float64
	PaymentMethod PaymentMethod
	Currency      string // ISO 4217
	VATPercentage float64
	Price         float64
	Total         float64 // computed server-side
	CreatedAt     time.Time
}

// InvoiceDraft is the user input for a new purchase invoice. Total is never accepted from clients.
type InvoiceDraft struct {
	InvoiceNumber string
	Date          string
	Description   string
	Quantity      float64
	PaymentMethod PaymentMethod
	Currency      string
	VATPercentage float64
	Price         float64
}
