package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is append-only. UnitPrice and DiscountPercent are frozen at
// transaction time and never recomputed from the live product.
type Purchase struct {
	ID              string          `db:"id" json:"id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	UserID          string          `db:"user_id" json:"user_id"`
	UnitPrice       decimal.Decimal `db:"unit_price" json:"unit_price"`
	DiscountPercent int             `db:"discount_percent" json:"discount_percent"`
	Quantity        int             `db:"quantity" json:"quantity"`
	PurchasedAt     time.Time       `db:"purchased_at" json:"purchased_at"`
}

// TotalPrice is the already-discounted unit price times quantity. The
// discount is never applied a second time here.
func (p *Purchase) TotalPrice() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
