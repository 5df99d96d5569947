package wishlist

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
)

// Repository persists wishlist items. Add is a single INSERT; the
// (product_id, user_id) unique constraint is the duplicate check and
// violations come back translated into domain errors.
type Repository interface {
	Add(ctx context.Context, item *model.WishlistItem) error
	FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.WishlistEntry, int, error)

	// Remove is owner-scoped; it returns model.ErrNotFound when no row
	// matches (id, user_id).
	Remove(ctx context.Context, id, userID string) error
}
