// Package stock is the only place product stock is mutated. Reservations
// run as a conditional update so the non-negative stock invariant holds
// under concurrent purchases without an application-level read-check race.
package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reservation carries the pricing columns of the product row at the
// instant the decrement took effect, read by the same statement.
type Reservation struct {
	ListPrice       decimal.Decimal `db:"list_price"`
	DiscountPercent int             `db:"discount_percent"`
}

// Reserve decrements stock_quantity by quantity if enough stock is
// available. It must run inside the same transaction as the purchase
// record insert so both commit or abort together. The returned
// Reservation is the authoritative price snapshot: a price update
// committed after this statement cannot reprice the purchase.
func (l *Ledger) Reserve(ctx context.Context, tx *sqlx.Tx, productID string, quantity int) (*Reservation, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1 AND is_deleted = FALSE
		RETURNING list_price, discount_percent
	`

	var res Reservation
	err := tx.GetContext(ctx, &res, query, quantity, productID)
	if err == nil {
		return &res, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	var available int
	err = tx.GetContext(ctx, &available,
		`SELECT stock_quantity FROM products WHERE id = $1 AND is_deleted = FALSE`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read available stock: %w", err)
	}
	return nil, &model.InsufficientStockError{Available: available}
}

// Restock adds quantity back to a product's stock. Used by the restock
// event listener, outside any purchase transaction.
func (l *Ledger) Restock(ctx context.Context, db *sqlx.DB, productID string, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	res, err := db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = FALSE
	`, quantity, productID)
	if err != nil {
		return fmt.Errorf("failed to restock: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to restock: %w", err)
	}
	if rows == 0 {
		return model.ErrProductNotFound
	}

	return nil
}
