package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/cart"
	"pos-till/internal/domain"
	"pos-till/internal/pricing"
	"pos-till/internal/repository"
)

// CartView is the cart as shown to the cashier: lines in insertion order
// plus totals recomputed after every mutation.
type CartView struct {
	Lines     []cart.Line    `json:"lines"`
	ItemCount int            `json:"item_count"`
	Totals    pricing.Totals `json:"totals"`
}

// CheckoutService drives a sale from cart building through the atomic
// persist. A failed persist leaves the session's cart exactly as it was,
// so the cashier can retry without re-entering items.
type CheckoutService interface {
	AddToCart(ctx context.Context, session *Session, productID int64) (*CartView, error)
	RemoveLine(session *Session, index int) *CartView
	ClearCart(session *Session) *CartView
	ViewCart(session *Session) *CartView
	Checkout(ctx context.Context, session *Session, cashReceived decimal.Decimal) (*domain.Receipt, error)
}

type checkoutService struct {
	products repository.ProductRepository
	receipts repository.ReceiptRepository
	taxRate  decimal.Decimal
	logger   *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	products repository.ProductRepository,
	receipts repository.ReceiptRepository,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) CheckoutService {
	if taxRate.IsZero() {
		taxRate = pricing.DefaultTaxRate
	}
	return &checkoutService{
		products: products,
		receipts: receipts,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// AddToCart snapshots the product from the catalog and adds one unit to the
// session's cart. The snapshot is deliberate: later catalog edits do not
// change lines already in the cart.
func (s *checkoutService) AddToCart(ctx context.Context, session *Session, productID int64) (*CartView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrUnknownProduct
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	var view *CartView
	session.withCart(func(c *cart.Cart) {
		c.AddItem(*product)
		view = s.view(c)
	})
	return view, nil
}

// RemoveLine drops the line at the given position. Out-of-range indexes
// leave the cart unchanged.
func (s *checkoutService) RemoveLine(session *Session, index int) *CartView {
	var view *CartView
	session.withCart(func(c *cart.Cart) {
		c.RemoveLine(index)
		view = s.view(c)
	})
	return view
}

// ClearCart empties the session's cart.
func (s *checkoutService) ClearCart(session *Session) *CartView {
	var view *CartView
	session.withCart(func(c *cart.Cart) {
		c.Clear()
		view = s.view(c)
	})
	return view
}

// ViewCart returns the current cart with fresh totals.
func (s *checkoutService) ViewCart(session *Session) *CartView {
	var view *CartView
	session.withCart(func(c *cart.Cart) {
		view = s.view(c)
	})
	return view
}

// Checkout finalizes the sale: totals are computed, the change gate is
// enforced, and the receipt is written in one transaction. The cart is
// cleared only after the write commits; any failure before that leaves it
// intact and returns no receipt id.
func (s *checkoutService) Checkout(ctx context.Context, session *Session, cashReceived decimal.Decimal) (*domain.Receipt, error) {
	var receipt *domain.Receipt
	var checkoutErr error

	session.withCart(func(c *cart.Cart) {
		lines := c.Lines()
		if len(lines) == 0 {
			checkoutErr = ErrEmptyCart
			return
		}

		totals := pricing.ComputeTotals(lines, s.taxRate)
		change := cashReceived.Sub(totals.Total)
		if change.IsNegative() {
			checkoutErr = ErrInsufficientCash
			return
		}

		candidate := &domain.Receipt{
			Date:         time.Now(),
			Total:        totals.Total,
			CashReceived: cashReceived.Round(2),
			Change:       change.Round(2),
			Items:        receiptItems(lines),
		}

		if _, err := s.receipts.Save(ctx, candidate); err != nil {
			s.logger.Error("Checkout persist failed, cart preserved", zap.Error(err))
			checkoutErr = fmt.Errorf("failed to save receipt: %w", err)
			return
		}

		c.Clear()
		receipt = candidate
	})

	if checkoutErr != nil {
		return nil, checkoutErr
	}

	s.logger.Info("Checkout committed",
		zap.Int64("receipt_id", receipt.ID),
		zap.String("total", receipt.Total.StringFixed(2)),
		zap.Int("lines", len(receipt.Items)),
	)
	return receipt, nil
}

func (s *checkoutService) view(c *cart.Cart) *CartView {
	lines := c.Lines()
	return &CartView{
		Lines:     lines,
		ItemCount: c.ItemCount(),
		Totals:    pricing.ComputeTotals(lines, s.taxRate),
	}
}

// receiptItems converts cart lines to receipt lines in insertion order,
// carrying the denormalized snapshots as sold.
func receiptItems(lines []cart.Line) []domain.ReceiptItem {
	items := make([]domain.ReceiptItem, 0, len(lines))
	for _, l := range lines {
		productID := l.ProductID
		items = append(items, domain.ReceiptItem{
			ProductID:   &productID,
			ProductName: l.Name,
			Price:       l.Price,
			Qty:         l.Qty,
			Total:       l.Total,
		})
	}
	return items
}
