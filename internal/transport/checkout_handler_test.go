package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/domain"
	"pos-till/internal/pricing"
	"pos-till/internal/service"
)

// stubCheckout lets each test script the service outcome directly.
type stubCheckout struct {
	view        *service.CartView
	addErr      error
	receipt     *domain.Receipt
	checkoutErr error
}

func (s *stubCheckout) AddToCart(context.Context, *service.Session, int64) (*service.CartView, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return s.view, nil
}

func (s *stubCheckout) RemoveLine(*service.Session, int) *service.CartView { return s.view }
func (s *stubCheckout) ClearCart(*service.Session) *service.CartView      { return s.view }
func (s *stubCheckout) ViewCart(*service.Session) *service.CartView       { return s.view }

func (s *stubCheckout) Checkout(context.Context, *service.Session, decimal.Decimal) (*domain.Receipt, error) {
	if s.checkoutErr != nil {
		return nil, s.checkoutErr
	}
	return s.receipt, nil
}

func newCheckoutRouter(stub *stubCheckout) chi.Router {
	r := chi.NewRouter()
	handler := NewCheckoutHandler(stub, service.NewSession(), zap.NewNop())
	handler.RegisterRoutes(r)
	return r
}

func emptyCartView() *service.CartView {
	return &service.CartView{
		Lines:  nil,
		Totals: pricing.Totals{Subtotal: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero},
	}
}

func TestViewCartReturnsView(t *testing.T) {
	router := newCheckoutRouter(&stubCheckout{view: emptyCartView()})

	req := httptest.NewRequest("GET", "/api/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view service.CartView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("response is not a cart view: %v", err)
	}
}

func TestAddToCartUnknownProductIs404(t *testing.T) {
	router := newCheckoutRouter(&stubCheckout{addErr: service.ErrUnknownProduct})

	body, _ := json.Marshal(AddToCartRequest{ProductID: 424242})
	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestAddToCartRequiresProductID(t *testing.T) {
	router := newCheckoutRouter(&stubCheckout{view: emptyCartView()})

	req := httptest.NewRequest("POST", "/api/cart/items", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing product_id, got %d", w.Code)
	}
}

func TestRemoveLineRejectsGarbageIndex(t *testing.T) {
	router := newCheckoutRouter(&stubCheckout{view: emptyCartView()})

	req := httptest.NewRequest("DELETE", "/api/cart/items/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric index, got %d", w.Code)
	}
}

func TestCheckoutSuccessReturns201WithReceipt(t *testing.T) {
	router := newCheckoutRouter(&stubCheckout{
		receipt: &domain.Receipt{
			ID:           7,
			Date:         time.Now(),
			Total:        decimal.RequireFromString("139.10"),
			CashReceived: decimal.RequireFromString("150.00"),
			Change:       decimal.RequireFromString("10.90"),
		},
	})

	body, _ := json.Marshal(CheckoutRequest{CashReceived: decimal.RequireFromString("150.00")})
	req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var receipt domain.Receipt
	if err := json.Unmarshal(w.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("response is not a receipt: %v", err)
	}
	if receipt.ID != 7 || !receipt.Change.Equal(decimal.RequireFromString("10.90")) {
		t.Errorf("unexpected receipt: %+v", receipt)
	}
}

func TestCheckoutErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"empty cart", service.ErrEmptyCart, http.StatusBadRequest},
		{"insufficient cash", service.ErrInsufficientCash, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newCheckoutRouter(&stubCheckout{checkoutErr: tc.err})

			body, _ := json.Marshal(CheckoutRequest{CashReceived: decimal.RequireFromString("100.00")})
			req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}
