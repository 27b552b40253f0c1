package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the immutable record of one completed sale: a header plus its
// line items in the order they were sold.
type Receipt struct {
	ID           int64           `json:"id" db:"id"`
	Date         time.Time       `json:"date" db:"date"`
	Total        decimal.Decimal `json:"total" db:"total"`
	CashReceived decimal.Decimal `json:"cash_received" db:"cash_received"`
	Change       decimal.Decimal `json:"change" db:"change"`
	Items        []ReceiptItem   `json:"items"`
}

// ReceiptItem carries a denormalized copy of the product's name and price at
// the time of sale. ProductID is nil when the originating product was deleted
// later or could not be matched during import.
type ReceiptItem struct {
	ID          int64           `json:"id" db:"id"`
	ReceiptID   int64           `json:"receipt_id" db:"receipt_id"`
	ProductID   *int64          `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Qty         int             `json:"qty" db:"qty"`
	Total       decimal.Decimal `json:"total" db:"total"`
}

// ReceiptSummary is the header-only projection used by the history listing.
type ReceiptSummary struct {
	ID           int64           `json:"id" db:"id"`
	Date         time.Time       `json:"date" db:"date"`
	Total        decimal.Decimal `json:"total" db:"total"`
	CashReceived decimal.Decimal `json:"cash_received" db:"cash_received"`
	Change       decimal.Decimal `json:"change" db:"change"`
	ItemsCount   int             `json:"items_count" db:"items_count"`
}

// SalesSummary aggregates the whole ledger plus the current local calendar day.
// Zero receipts yields zero counts and zero sums, never absent values.
type SalesSummary struct {
	TotalReceipts int             `json:"total_receipts"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TodayReceipts int             `json:"today_receipts"`
	TodaySales    decimal.Decimal `json:"today_sales"`
}
