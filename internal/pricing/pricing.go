// Package pricing maps cart lines to subtotal, tax and total.
//
// All arithmetic is fixed-point decimal. Line totals are price times an
// integer quantity and therefore exact; only the tax amount needs rounding,
// half-up to the nearest cent.
package pricing

import (
	"github.com/shopspring/decimal"

	"pos-till/internal/cart"
)

// DefaultTaxRate is the flat rate applied at checkout when none is configured.
var DefaultTaxRate = decimal.NewFromFloat(0.07)

// Totals holds the computed figures for a cart.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals sums the line totals and applies the tax rate. It is a pure
// function: the same lines always produce the same figures.
func ComputeTotals(lines []cart.Line, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}

	// decimal.Round rounds half away from zero, which is half-up for
	// non-negative money.
	tax := subtotal.Mul(taxRate).Round(2)

	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      tax,
		Total:    subtotal.Add(tax).Round(2),
	}
}
