package usecase

import "math"

// CalculateTotal returns price*quantity plus VAT on that amount, rounded to cents.
func CalculateTotal(price, quantity, vatPercentage float64) float64 {
	net := price * quantity
	vat := net * vatPercentage / 100
	return math.Round((net+vat)*100) / 100
}
