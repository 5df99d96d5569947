package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/pricing"
	"github.com/ecomarket/marketplace-service/internal/product"
	"github.com/ecomarket/marketplace-service/internal/wishlist"
)

type wishlistUseCase struct {
	repo     wishlist.Repository
	products product.Repository
	logger   logger.ZapLogger
}

func NewWishlistUseCase(repo wishlist.Repository, products product.Repository, log logger.ZapLogger) wishlist.UseCase {
	return &wishlistUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *wishlistUseCase) AddProduct(ctx context.Context, userID, productID string) (*model.WishlistItem, error) {
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

	item := &model.WishlistItem{
		ID:           uuid.New().String(),
		ProductID:    productID,
		UserID:       userID,
		WishlistedAt: time.Now(),
	}

	// The unique constraint is the duplicate check; a concurrent add for
	// the same (product, user) loses at the insert, not before it.
	if err := uc.repo.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *wishlistUseCase) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]model.WishlistEntry, int, error) {
	entries, count, err := uc.repo.FindByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	for i := range entries {
		entries[i].FinalPrice = pricing.EffectiveUnitPrice(entries[i].ListPrice, entries[i].DiscountPercent)
	}
	return entries, count, nil
}

func (uc *wishlistUseCase) Remove(ctx context.Context, id, actingUserID string) error {
	return uc.repo.Remove(ctx, id, actingUserID)
}
