package product

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	// Update and SoftDelete are owner-scoped; both return model.ErrNotFound
	// when no row matches (id, owner_id).
	Update(ctx context.Context, product *model.Product) error
	SoftDelete(ctx context.Context, id, ownerID string) error
}
