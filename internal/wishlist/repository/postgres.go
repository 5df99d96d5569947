package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ecomarket/marketplace-service/internal/model"
)

const (
	uniqueViolation = "23505"
	fkViolation     = "23503"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return model.ErrDuplicateWishlist
	case fkViolation:
		return model.ErrProductNotFound
	}
	return err
}

func (r *PGRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	query := `
        INSERT INTO wishlist_items (id, product_id, user_id, wishlisted_at)
        VALUES (:id, :product_id, :user_id, :wishlisted_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, item); err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.WishlistEntry, int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM wishlist_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	query := `
        SELECT w.id, w.product_id, w.user_id, w.wishlisted_at,
               p.name AS product_name, p.list_price, p.discount_percent
        FROM wishlist_items w
        JOIN products p ON p.id = w.product_id
        WHERE w.user_id = $1 AND p.is_deleted = FALSE
        ORDER BY w.wishlisted_at DESC
    `
	args := []interface{}{userID}
	if pageSize > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	var entries []model.WishlistEntry
	if err := r.DB.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func (r *PGRepository) Remove(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}
