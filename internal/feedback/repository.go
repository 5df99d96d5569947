package feedback

import (
	"context"

	"github.com/ecomarket/marketplace-service/internal/model"
)

// Repository is the uniqueness-guarded feedback store. Creates are single
// INSERTs; the (product_id, user_id) unique constraints and the rating
// range check live in the database, and violations come back translated
// into domain errors. There is no check-then-insert window.
type Repository interface {
	CreateReview(ctx context.Context, review *model.Review) error
	UpdateReview(ctx context.Context, review *model.Review) error
	DeleteReview(ctx context.Context, id, userID string) error
	FindReviewByID(ctx context.Context, id string) (*model.Review, error)
	FindReviewsByProduct(ctx context.Context, productID string, page, pageSize int) ([]model.Review, int, error)
	FindReviewsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Review, int, error)

	CreateRating(ctx context.Context, rating *model.Rating) error
	UpdateRating(ctx context.Context, rating *model.Rating) error
	DeleteRating(ctx context.Context, id, userID string) error
	FindRatingByID(ctx context.Context, id string) (*model.Rating, error)
	FindRatingsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Rating, int, error)

	// HasPurchased backs the proof-of-purchase gate.
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
	Summary(ctx context.Context, productID string) (*model.FeedbackSummary, error)
}
