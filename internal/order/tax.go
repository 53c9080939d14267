package order

import "github.com/shopspring/decimal"

// TaxRate is the fixed sales tax applied at payment.
var TaxRate = decimal.RequireFromString("0.085")

// Tax returns the tax on a subtotal, truncated to whole cents.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).RoundDown(2)
}

// FinalTotal returns subtotal plus tax.
func FinalTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(Tax(subtotal))
}
