package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem is guarded by a (product_id, user_id) unique constraint;
// a product appears on a user's wishlist at most once.
type WishlistItem struct {
	ID           string    `db:"id" json:"id"`
	ProductID    string    `db:"product_id" json:"product_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	WishlistedAt time.Time `db:"wishlisted_at" json:"wishlisted_at"`
}

// WishlistEntry is the list view: the item joined with the product fields
// a wishlist page shows. FinalPrice is computed, not stored.
type WishlistEntry struct {
	WishlistItem
	ProductName     string          `db:"product_name" json:"product_name"`
	ListPrice       decimal.Decimal `db:"list_price" json:"list_price"`
	DiscountPercent int             `db:"discount_percent" json:"discount_percent"`
	FinalPrice      decimal.Decimal `db:"-" json:"final_price"`
}
