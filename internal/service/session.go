package service

import (
	"sync"

	"pos-till/internal/cart"
)

// Session is the explicit checkout session for one till. It owns the cart
// for the sale in progress; nothing else holds cart state. The design is
// single-till, but the HTTP surface serves requests concurrently, so access
// goes through the session lock.
type Session struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// NewSession creates a session with an empty cart.
func NewSession() *Session {
	return &Session{cart: cart.New()}
}

// withCart runs fn while holding the session lock.
func (s *Session) withCart(fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
}
