package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pkg/cache"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/product"
	"github.com/ecomarket/marketplace-service/internal/purchase"
)

type purchaseUseCase struct {
	repo     purchase.Repository
	products product.Repository
	cache    *cache.RedisClient
	logger   logger.ZapLogger
}

func NewPurchaseUseCase(repo purchase.Repository, products product.Repository, cache *cache.RedisClient, log logger.ZapLogger) purchase.UseCase {
	return &purchaseUseCase{
		repo:     repo,
		products: products,
		cache:    cache,
		logger:   log,
	}
}

// Purchase commits a purchase of quantity units. The unit price and
// discount percent are snapshotted inside the purchase transaction, from
// the same statement that decrements stock; later product price changes
// never touch the created record.
func (uc *purchaseUseCase) Purchase(ctx context.Context, userID, productID string, quantity int) (*model.Purchase, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrProductNotFound
	}
	if p.IsDeleted {
		return nil, model.ErrProductUnavailable
	}

	record := &model.Purchase{
		ID:          uuid.New().String(),
		ProductID:   p.ID,
		UserID:      userID,
		Quantity:    quantity,
		PurchasedAt: time.Now(),
	}

	if err := uc.repo.ExecutePurchase(ctx, record); err != nil {
		return nil, err
	}

	// Stock changed; cached catalog pages are stale.
	go uc.invalidateListCache(context.Background())

	return record, nil
}

func (uc *purchaseUseCase) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Purchase, int, error) {
	return uc.repo.FindByUser(ctx, userID, page, pageSize)
}

func (uc *purchaseUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
