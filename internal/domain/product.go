package domain

import (
	"github.com/shopspring/decimal"
)

// FallbackCategory is the sentinel category products are reassigned to when
// their category is deleted.
const FallbackCategory = "Uncategorized"

// Product represents a product in the catalog. Category is a plain attribute
// shared by convention across products, not a reference to a separate table.
type Product struct {
	ID       int64           `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Price    decimal.Decimal `json:"price" db:"price"`
	Category string          `json:"category" db:"category"`
}
