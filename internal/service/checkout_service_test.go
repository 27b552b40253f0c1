package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/domain"
)

func newCheckoutFixture(t *testing.T) (CheckoutService, *fakeProductRepo, *fakeReceiptRepo, *Session) {
	t.Helper()
	products := newFakeProductRepo()
	receipts := newFakeReceiptRepo()
	svc := NewCheckoutService(products, receipts, decimal.Zero, zap.NewNop())
	return svc, products, receipts, NewSession()
}

func seedProduct(t *testing.T, products *fakeProductRepo, name, price, category string) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}
	if err := products.Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return product
}

func TestAddToCartMergesQuantities(t *testing.T) {
	svc, products, _, session := newCheckoutFixture(t)
	ctx := context.Background()

	padThai := seedProduct(t, products, "Pad Thai", "50.00", "Food")
	icedTea := seedProduct(t, products, "Iced Tea", "30.00", "Beverages")

	if _, err := svc.AddToCart(ctx, session, padThai.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddToCart(ctx, session, icedTea.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := svc.AddToCart(ctx, session, padThai.ID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(view.Lines) != 2 {
		t.Fatalf("expected same product to merge into one line, got %d lines", len(view.Lines))
	}
	if view.Lines[0].Qty != 2 {
		t.Errorf("expected first line qty 2, got %d", view.Lines[0].Qty)
	}
	if view.ItemCount != 3 {
		t.Errorf("expected 3 units in cart, got %d", view.ItemCount)
	}
	if !view.Totals.Subtotal.Equal(decimal.RequireFromString("130.00")) {
		t.Errorf("expected subtotal 130.00, got %s", view.Totals.Subtotal)
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	svc, _, _, session := newCheckoutFixture(t)

	_, err := svc.AddToCart(context.Background(), session, 424242)
	if !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}

	if view := svc.ViewCart(session); len(view.Lines) != 0 {
		t.Errorf("cart should stay empty after failed add, got %d lines", len(view.Lines))
	}
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	svc, products, _, session := newCheckoutFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, "Coffee", "35.00", "Beverages")

	if _, err := svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// A later catalog edit must not reach lines already in the cart.
	product.Price = decimal.RequireFromString("99.00")
	if err := products.Update(ctx, product); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	view := svc.ViewCart(session)
	if !view.Lines[0].Price.Equal(decimal.RequireFromString("35.00")) {
		t.Errorf("expected snapshotted price 35.00, got %s", view.Lines[0].Price)
	}
}

func TestRemoveLineAndClear(t *testing.T) {
	svc, products, _, session := newCheckoutFixture(t)
	ctx := context.Background()

	a := seedProduct(t, products, "Pad Thai", "50.00", "Food")
	b := seedProduct(t, products, "Coffee", "35.00", "Beverages")
	if _, err := svc.AddToCart(ctx, session, a.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.AddToCart(ctx, session, b.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	view := svc.RemoveLine(session, 0)
	if len(view.Lines) != 1 || view.Lines[0].Name != "Coffee" {
		t.Errorf("expected only Coffee to remain, got %+v", view.Lines)
	}

	// Out-of-range removals change nothing.
	view = svc.RemoveLine(session, 5)
	if len(view.Lines) != 1 {
		t.Errorf("out-of-range removal altered the cart: %+v", view.Lines)
	}

	view = svc.ClearCart(session)
	if len(view.Lines) != 0 || !view.Totals.Total.IsZero() {
		t.Errorf("expected empty cart after clear, got %+v", view)
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	svc, products, receipts, session := newCheckoutFixture(t)
	ctx := context.Background()

	padThai := seedProduct(t, products, "Pad Thai", "50.00", "Food")
	icedTea := seedProduct(t, products, "Iced Tea", "30.00", "Beverages")

	for _, id := range []int64{padThai.ID, padThai.ID, icedTea.ID} {
		if _, err := svc.AddToCart(ctx, session, id); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}

	receipt, err := svc.Checkout(ctx, session, decimal.RequireFromString("150.00"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if !receipt.Total.Equal(decimal.RequireFromString("139.10")) {
		t.Errorf("expected total 139.10, got %s", receipt.Total)
	}
	if !receipt.Change.Equal(decimal.RequireFromString("10.90")) {
		t.Errorf("expected change 10.90, got %s", receipt.Change)
	}
	if len(receipt.Items) != 2 {
		t.Fatalf("expected 2 receipt lines, got %d", len(receipt.Items))
	}
	if receipt.Items[0].ProductName != "Pad Thai" || receipt.Items[0].Qty != 2 {
		t.Errorf("unexpected first line: %+v", receipt.Items[0])
	}

	if len(receipts.receipts) != 1 {
		t.Fatalf("expected 1 persisted receipt, got %d", len(receipts.receipts))
	}

	if view := svc.ViewCart(session); len(view.Lines) != 0 {
		t.Errorf("cart should be empty after successful checkout, got %d lines", len(view.Lines))
	}
}

func TestCheckoutExactCashGivesZeroChange(t *testing.T) {
	svc, products, _, session := newCheckoutFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, "Coffee", "35.00", "Beverages")
	if _, err := svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	receipt, err := svc.Checkout(ctx, session, decimal.RequireFromString("37.45"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !receipt.Change.IsZero() {
		t.Errorf("expected zero change on exact cash, got %s", receipt.Change)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, receipts, session := newCheckoutFixture(t)

	_, err := svc.Checkout(context.Background(), session, decimal.RequireFromString("100.00"))
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
	if len(receipts.receipts) != 0 {
		t.Errorf("nothing should be persisted for an empty cart")
	}
}

func TestCheckoutInsufficientCash(t *testing.T) {
	svc, products, receipts, session := newCheckoutFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, "Pad Thai", "50.00", "Food")
	if _, err := svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err := svc.Checkout(ctx, session, decimal.RequireFromString("50.00"))
	if !errors.Is(err, ErrInsufficientCash) {
		t.Errorf("expected ErrInsufficientCash, got %v", err)
	}

	if len(receipts.receipts) != 0 {
		t.Errorf("nothing should be persisted when cash is short")
	}
	if view := svc.ViewCart(session); len(view.Lines) != 1 {
		t.Errorf("cart should be untouched after rejected checkout, got %d lines", len(view.Lines))
	}
}

func TestCheckoutPersistFailureKeepsCart(t *testing.T) {
	svc, products, receipts, session := newCheckoutFixture(t)
	ctx := context.Background()

	product := seedProduct(t, products, "Pad Thai", "50.00", "Food")
	if _, err := svc.AddToCart(ctx, session, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	receipts.saveErr = errors.New("connection reset")

	if _, err := svc.Checkout(ctx, session, decimal.RequireFromString("100.00")); err == nil {
		t.Fatal("expected checkout to surface the persist failure")
	}

	view := svc.ViewCart(session)
	if len(view.Lines) != 1 || view.Lines[0].Name != "Pad Thai" {
		t.Fatalf("cart must survive a failed persist, got %+v", view.Lines)
	}

	// The retry succeeds without re-entering items.
	receipts.saveErr = nil
	receipt, err := svc.Checkout(ctx, session, decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("retried checkout failed: %v", err)
	}
	if !receipt.Total.Equal(decimal.RequireFromString("53.50")) {
		t.Errorf("expected total 53.50 on retry, got %s", receipt.Total)
	}
	if view := svc.ViewCart(session); len(view.Lines) != 0 {
		t.Errorf("cart should clear after the retry commits")
	}
}
