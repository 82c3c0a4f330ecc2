package dto

import "fluxfinance/internal/feature/invoices/domain/entity"

// CreateInvoiceReq is the body of POST /purchase-invoices (JSON or form).
// Range checks are done by the usecase so that JSON and form clients get the same messages.
type CreateInvoiceReq struct {
	InvoiceNumber string  `json:"invoice_number" form:"invoice_number"`
	Date          string  `json:"date" form:"date"`
	Description   string  `json:"description" form:"description"`
	Quantity      float64 `json:"quantity" form:"quantity"`
	PaymentMethod string  `json:"payment_method" form:"payment_method"`
	Currency      string  `json:"currency" form:"currency"`
	VATPercentage float64 `json:"vat_percentage" form:"vat_percentage"`
	Price         float64 `json:"price" form:"price"`
}

// ToDraft converts the request into the usecase input.
func (r CreateInvoiceReq) ToDraft() entity.InvoiceDraft {
	return entity.InvoiceDraft{
		InvoiceNumber: r.InvoiceNumber,
		Date:          r.Date,
		Description:   r.Description,
		Quantity:      r.Quantity,
		PaymentMethod: entity.PaymentMethod(r.PaymentMethod),
		Currency:      r.Currency,
		VATPercentage: r.VATPercentage,
		Price:         r.Price,
	}
}
