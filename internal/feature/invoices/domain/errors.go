// Package domain defines domain-level errors for the purchase invoice feature.
package domain

import "errors"

var (
	// ErrInvalidInvoice wraps every validation failure of an invoice draft.
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvoiceNotFound indicates that no invoice has the requested ID.
	ErrInvoiceNotFound = errors.New("purchase invoice not found")
)
