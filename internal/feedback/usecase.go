package feedback

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type UseCase interface {
	CreateReview(ctx context.Context, userID, productID, body string) (*model.Review, error)
	UpdateReview(ctx context.Context, id, actingUserID, body string) (*model.Review, error)
	DeleteReview(ctx context.Context, id, actingUserID string) error
	ListProductReviews(ctx context.Context, productID string, page, pageSize int) ([]model.Review, int, error)
	ListUserReviews(ctx context.Context, userID string, page, pageSize int) ([]model.Review, int, error)

	CreateRating(ctx context.Context, userID, productID string, score decimal.Decimal) (*model.Rating, error)
	UpdateRating(ctx context.Context, id, actingUserID string, score decimal.Decimal) (*model.Rating, error)
	DeleteRating(ctx context.Context, id, actingUserID string) error
	ListUserRatings(ctx context.Context, userID string, page, pageSize int) ([]model.Rating, int, error)

	ProductSummary(ctx context.Context, productID string) (*model.FeedbackSummary, error)
}
