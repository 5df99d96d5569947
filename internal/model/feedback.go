package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review and Rating are both guarded by a (product_id, user_id) unique
// constraint; a user gets at most one of each per product.

type Review struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	EditedAt  time.Time `db:"edited_at" json:"edited_at"`
}

type Rating struct {
	ID        string          `db:"id" json:"id"`
	ProductID string          `db:"product_id" json:"product_id"`
	UserID    string          `db:"user_id" json:"user_id"`
	Score     decimal.Decimal `db:"score" json:"score"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	EditedAt  time.Time       `db:"edited_at" json:"edited_at"`
}

// FeedbackSummary is an explicit read model aggregated from reviews and
// ratings for a single product.
type FeedbackSummary struct {
	ProductID    string          `db:"product_id" json:"product_id"`
	ReviewCount  int             `db:"review_count" json:"review_count"`
	RatingCount  int             `db:"rating_count" json:"rating_count"`
	AverageScore decimal.Decimal `db:"average_score" json:"average_score"`
}
