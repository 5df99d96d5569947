package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecomarket/marketplace-service/internal/feedback"
	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/product"
)

var (
	minScore = decimal.NewFromInt(1)
	maxScore = decimal.NewFromInt(10)

	errEmptyBody = errors.New("review body cannot be empty")
)

type feedbackUseCase struct {
	repo     feedback.Repository
	products product.Repository
	logger   logger.ZapLogger
}

func NewFeedbackUseCase(repo feedback.Repository, products product.Repository, log logger.ZapLogger) feedback.UseCase {
	return &feedbackUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

// gate verifies the product is purchasable feedback-wise: it must exist,
// not be soft-deleted, and the user must have bought it at least once.
func (uc *feedbackUseCase) gate(ctx context.Context, userID, productID string) error {
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return model.ErrProductNotFound
	}
	if p.IsDeleted {
		return model.ErrProductUnavailable
	}

	purchased, err := uc.repo.HasPurchased(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !purchased {
		return model.ErrPurchaseRequired
	}
	return nil
}

func (uc *feedbackUseCase) CreateReview(ctx context.Context, userID, productID, body string) (*model.Review, error) {
	if body == "" {
		return nil, errEmptyBody
	}
	if err := uc.gate(ctx, userID, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &model.Review{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		EditedAt:  now,
	}

	// The unique constraint is the duplicate check; a concurrent submission
	// for the same (product, user) loses at the insert, not before it.
	if err := uc.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *feedbackUseCase) UpdateReview(ctx context.Context, id, actingUserID, body string) (*model.Review, error) {
	if body == "" {
		return nil, errEmptyBody
	}

	review := &model.Review{
		ID:       id,
		UserID:   actingUserID,
		Body:     body,
		EditedAt: time.Now(),
	}
	if err := uc.repo.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return uc.repo.FindReviewByID(ctx, id)
}

func (uc *feedbackUseCase) DeleteReview(ctx context.Context, id, actingUserID string) error {
	return uc.repo.DeleteReview(ctx, id, actingUserID)
}

func (uc *feedbackUseCase) ListProductReviews(ctx context.Context, productID string, page, pageSize int) ([]model.Review, int, error) {
	return uc.repo.FindReviewsByProduct(ctx, productID, page, pageSize)
}

func (uc *feedbackUseCase) ListUserReviews(ctx context.Context, userID string, page, pageSize int) ([]model.Review, int, error) {
	return uc.repo.FindReviewsByUser(ctx, userID, page, pageSize)
}

// quantizeScore normalizes an incoming score to the one fractional digit
// the ratings column stores.
func quantizeScore(score decimal.Decimal) decimal.Decimal {
	return score.Round(1)
}

func validateScore(score decimal.Decimal) error {
	if score.LessThan(minScore) || score.GreaterThan(maxScore) {
		return model.ErrRatingOutOfRange
	}
	return nil
}

func (uc *feedbackUseCase) CreateRating(ctx context.Context, userID, productID string, score decimal.Decimal) (*model.Rating, error) {
	score = quantizeScore(score)
	// Fast-path check; the range check constraint in the database remains
	// authoritative under concurrency.
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if err := uc.gate(ctx, userID, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	rating := &model.Rating{
		ID:        uuid.New().String(),
		ProductID: productID,
		UserID:    userID,
		Score:     score,
		CreatedAt: now,
		EditedAt:  now,
	}

	if err := uc.repo.CreateRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (uc *feedbackUseCase) UpdateRating(ctx context.Context, id, actingUserID string, score decimal.Decimal) (*model.Rating, error) {
	score = quantizeScore(score)
	if err := validateScore(score); err != nil {
		return nil, err
	}

	rating := &model.Rating{
		ID:       id,
		UserID:   actingUserID,
		Score:    score,
		EditedAt: time.Now(),
	}
	if err := uc.repo.UpdateRating(ctx, rating); err != nil {
		return nil, err
	}
	return uc.repo.FindRatingByID(ctx, id)
}

func (uc *feedbackUseCase) DeleteRating(ctx context.Context, id, actingUserID string) error {
	return uc.repo.DeleteRating(ctx, id, actingUserID)
}

func (uc *feedbackUseCase) ListUserRatings(ctx context.Context, userID string, page, pageSize int) ([]model.Rating, int, error) {
	return uc.repo.FindRatingsByUser(ctx, userID, page, pageSize)
}

func (uc *feedbackUseCase) ProductSummary(ctx context.Context, productID string) (*model.FeedbackSummary, error) {
	return uc.repo.Summary(ctx, productID)
}
