package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pricing"
	"github.com/ecomarket/marketplace-service/internal/stock"
)

type PGRepository struct {
	DB     *sqlx.DB
	ledger *stock.Ledger
}

func NewPGRepository(db *sqlx.DB, ledger *stock.Ledger) *PGRepository {
	return &PGRepository{DB: db, ledger: ledger}
}

// ExecutePurchase runs the stock decrement and the purchase insert as one
// atomic unit. A failure at any point rolls back both: no stock decrement
// survives a failed purchase row and vice versa. UnitPrice and
// DiscountPercent are filled from the row state the reservation saw, so
// the snapshot cannot go stale between pricing and commit.
func (r *PGRepository) ExecutePurchase(ctx context.Context, p *model.Purchase) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin purchase transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := r.ledger.Reserve(ctx, tx, p.ProductID, p.Quantity)
	if err != nil {
		return err
	}
	p.UnitPrice = pricing.EffectiveUnitPrice(res.ListPrice, res.DiscountPercent)
	p.DiscountPercent = res.DiscountPercent

	query := `
        INSERT INTO purchases (
            id, product_id, user_id, unit_price, discount_percent, quantity, purchased_at
        )
        VALUES (
            :id, :product_id, :user_id, :unit_price, :discount_percent, :quantity, :purchased_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Purchase, int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM purchases WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM purchases WHERE user_id = $1 ORDER BY purchased_at DESC`
	args := []interface{}{userID}
	if pageSize > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	var purchases []model.Purchase
	if err := r.DB.SelectContext(ctx, &purchases, query, args...); err != nil {
		return nil, 0, err
	}

	return purchases, count, nil
}
