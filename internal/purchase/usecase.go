package purchase

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type UseCase interface {
	Purchase(ctx context.Context, userID, productID string, quantity int) (*model.Purchase, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Purchase, int, error)
}
