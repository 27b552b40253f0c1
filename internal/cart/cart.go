package cart

import (
	"github.com/shopspring/decimal"

	"pos-till/internal/domain"
)

// Line is one product entry in the cart. Name, Price and Category are
// snapshots taken when the product was added; later catalog edits do not
// touch them, so the sale reflects the price the cashier saw.
type Line struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Qty       int             `json:"qty"`
	Total     decimal.Decimal `json:"total"`
}

// Cart accumulates line items for the current sale. It holds at most one
// line per product id and preserves insertion order, which determines the
// order of receipt lines at checkout.
type Cart struct {
	lines []Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the product. If a line for the product already
// exists its quantity is incremented and the line total recomputed,
// otherwise a new line with quantity 1 is appended.
func (c *Cart) AddItem(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Qty++
			c.lines[i].Total = c.lines[i].Price.Mul(decimal.NewFromInt(int64(c.lines[i].Qty)))
			return
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Qty:       1,
		Total:     p.Price,
	})
}

// RemoveLine removes the line at the given position. An out-of-range index
// is a no-op; the UI is responsible for valid selection.
func (c *Cart) RemoveLine(index int) {
	if index < 0 || index >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// ItemCount returns the total unit count across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.lines {
		count += l.Qty
	}
	return count
}
