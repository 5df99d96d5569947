package wishlist

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type UseCase interface {
	AddProduct(ctx context.Context, userID, productID string) (*model.WishlistItem, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.WishlistEntry, int, error)
	Remove(ctx context.Context, id, actingUserID string) error
}
