package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProduct is returned when a cart mutation references a
	// product id that is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientCash is returned when the cash received does not cover
	// the total; the change must never be negative.
	ErrInsufficientCash = errors.New("cash received is less than total")
)

// ValidationError reports caller-supplied data that violates a precondition.
// It is raised before any write is attempted, so nothing is partially applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
