package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/middleware"
	"pos-till/internal/service"
)

// AddToCartRequest is the payload for adding one unit of a product.
type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

// CheckoutRequest is the payload for finalizing the sale.
type CheckoutRequest struct {
	CashReceived decimal.Decimal `json:"cash_received" validate:"required"`
}

// CheckoutHandler handles HTTP requests for the active till session
type CheckoutHandler struct {
	checkout service.CheckoutService
	session  *service.Session
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler bound to the till's
// single session.
func NewCheckoutHandler(checkout service.CheckoutService, session *service.Session, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, session: session, logger: logger}
}

// RegisterRoutes registers all cart and checkout routes
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.ViewCart)
		r.Post("/items", h.AddToCart)
		r.Delete("/items/{index}", h.RemoveLine)
		r.Delete("/", h.ClearCart)
	})

	r.Post("/api/checkout", h.Checkout)
}

// ViewCart returns the cart with fresh totals.
func (h *CheckoutHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.checkout.ViewCart(h.session))
}

// AddToCart adds one unit of a product to the cart.
func (h *CheckoutHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.checkout.AddToCart(r.Context(), h.session, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProduct) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to add to cart", zap.Int64("product_id", req.ProductID), zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// RemoveLine removes the cart line at the given position. Out-of-range
// positions are no-ops and still return the (unchanged) cart.
func (h *CheckoutHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid line index")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.checkout.RemoveLine(h.session, index))
}

// ClearCart empties the cart.
func (h *CheckoutHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.checkout.ClearCart(h.session))
}

// Checkout finalizes the sale. On success the committed receipt is
// returned and the cart is empty; on failure the cart is untouched.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.checkout.Checkout(r.Context(), h.session, req.CashReceived)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrInsufficientCash):
			middleware.RespondWithError(w, http.StatusBadRequest, "cash received is less than total")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithServiceError(w, err)
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, receipt)
}
