package purchase

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type Repository interface {
	// ExecutePurchase reserves stock and inserts the purchase row in one
	// transaction; both commit or neither does.
	ExecutePurchase(ctx context.Context, p *model.Purchase) error
	FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Purchase, int, error)
}
