package model

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values. Every one of these is an expected,
// reportable outcome, not a programming bug.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is no longer available")
	ErrInvalidQuantity    = errors.New("purchase quantity must be greater than zero")
	ErrDuplicateFeedback  = errors.New("feedback for this product already exists")
	ErrRatingOutOfRange   = errors.New("rating score must be between 1.0 and 10.0")
	ErrPurchaseRequired   = errors.New("product must be purchased before leaving feedback")
	ErrDuplicateWishlist  = errors.New("product is already on the wishlist")
	ErrNotFound           = errors.New("record not found")

	ErrEmptyName       = errors.New("product name cannot be empty")
	ErrInvalidPrice    = errors.New("product price must be positive")
	ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")
)

// InsufficientStockError reports a reservation that exceeded the available
// stock. Available carries the quantity left at the time of the attempt.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("requested quantity exceeds available stock (%d left)", e.Available)
}
