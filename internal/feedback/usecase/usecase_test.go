package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/product/dto"
)

const (
	productID = "6a6f1912-25a6-4f3c-8f2e-04b75a7f2a01"
	buyerID   = "9d1c3b5a-7e2f-4a6b-8c0d-1e3f5a7b9c0d"
)

type fakeProductRepo struct {
	product *model.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return f.product, nil
}
func (f *fakeProductRepo) FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}
func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) SoftDelete(ctx context.Context, id, ownerID string) error {
	return nil
}

type fakeFeedbackRepo struct {
	purchased     bool
	createdReview *model.Review
	createdRating *model.Rating
	createErr     error
}

func (f *fakeFeedbackRepo) CreateReview(ctx context.Context, r *model.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdReview = r
	return nil
}
func (f *fakeFeedbackRepo) UpdateReview(ctx context.Context, r *model.Review) error { return nil }
func (f *fakeFeedbackRepo) DeleteReview(ctx context.Context, id, userID string) error {
	return nil
}
func (f *fakeFeedbackRepo) FindReviewByID(ctx context.Context, id string) (*model.Review, error) {
	return &model.Review{ID: id}, nil
}
func (f *fakeFeedbackRepo) FindReviewsByProduct(ctx context.Context, productID string, page, pageSize int) ([]model.Review, int, error) {
	return nil, 0, nil
}
func (f *fakeFeedbackRepo) FindReviewsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Review, int, error) {
	return nil, 0, nil
}
func (f *fakeFeedbackRepo) CreateRating(ctx context.Context, r *model.Rating) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdRating = r
	return nil
}
func (f *fakeFeedbackRepo) UpdateRating(ctx context.Context, r *model.Rating) error { return nil }
func (f *fakeFeedbackRepo) DeleteRating(ctx context.Context, id, userID string) error {
	return nil
}
func (f *fakeFeedbackRepo) FindRatingByID(ctx context.Context, id string) (*model.Rating, error) {
	return &model.Rating{ID: id}, nil
}
func (f *fakeFeedbackRepo) FindRatingsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Rating, int, error) {
	return nil, 0, nil
}
func (f *fakeFeedbackRepo) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	return f.purchased, nil
}
func (f *fakeFeedbackRepo) Summary(ctx context.Context, productID string) (*model.FeedbackSummary, error) {
	return &model.FeedbackSummary{ProductID: productID}, nil
}

func liveProduct() *model.Product {
	p := &model.Product{Name: "Mechanical keyboard"}
	p.ID = productID
	return p
}

func newUseCase(purchased bool) (*fakeFeedbackRepo, *fakeProductRepo, *feedbackUseCase) {
	repo := &fakeFeedbackRepo{purchased: purchased}
	products := &fakeProductRepo{product: liveProduct()}
	uc := NewFeedbackUseCase(repo, products, logger.NewNop()).(*feedbackUseCase)
	return repo, products, uc
}

func TestCreateReview_RequiresPurchase(t *testing.T) {
	repo, _, uc := newUseCase(false)

	_, err := uc.CreateReview(context.Background(), buyerID, productID, "Nice keyboard")
	assert.ErrorIs(t, err, model.ErrPurchaseRequired)
	assert.Nil(t, repo.createdReview)
}

func TestCreateReview_BuyerCanReview(t *testing.T) {
	repo, _, uc := newUseCase(true)

	review, err := uc.CreateReview(context.Background(), buyerID, productID, "Nice keyboard")
	require.NoError(t, err)
	assert.Equal(t, buyerID, review.UserID)
	assert.Equal(t, productID, review.ProductID)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, review, repo.createdReview)
}

func TestCreateReview_EmptyBody(t *testing.T) {
	_, _, uc := newUseCase(true)

	_, err := uc.CreateReview(context.Background(), buyerID, productID, "")
	assert.ErrorIs(t, err, errEmptyBody)
}

func TestCreateReview_UnknownOrDeletedProduct(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		_, products, uc := newUseCase(true)
		products.product = nil

		_, err := uc.CreateReview(context.Background(), buyerID, productID, "ok")
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("soft deleted product", func(t *testing.T) {
		_, products, uc := newUseCase(true)
		products.product.IsDeleted = true

		_, err := uc.CreateReview(context.Background(), buyerID, productID, "ok")
		assert.ErrorIs(t, err, model.ErrProductUnavailable)
	})
}

func TestCreateReview_DuplicateSurfacesFromStorage(t *testing.T) {
	repo, _, uc := newUseCase(true)
	repo.createErr = model.ErrDuplicateFeedback

	_, err := uc.CreateReview(context.Background(), buyerID, productID, "again")
	assert.ErrorIs(t, err, model.ErrDuplicateFeedback)
}

func TestCreateRating_ScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   string
		wantErr bool
	}{
		{"lowest valid score", "1.0", false},
		{"highest valid score", "10.0", false},
		{"mid score", "7.5", false},
		{"zero", "0", true},
		{"below minimum", "0.9", true},
		{"above maximum", "10.1", true},
		{"negative", "-3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, uc := newUseCase(true)

			rating, err := uc.CreateRating(context.Background(), buyerID, productID, decimal.RequireFromString(tt.score))
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrRatingOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, decimal.RequireFromString(tt.score).String(), rating.Score.String())
		})
	}
}

func TestCreateRating_QuantizesToOneFractionalDigit(t *testing.T) {
	repo, _, uc := newUseCase(true)

	rating, err := uc.CreateRating(context.Background(), buyerID, productID, decimal.RequireFromString("8.44"))
	require.NoError(t, err)
	assert.Equal(t, "8.4", rating.Score.String())
	assert.Equal(t, "8.4", repo.createdRating.Score.String())
}

func TestCreateRating_RequiresPurchase(t *testing.T) {
	repo, _, uc := newUseCase(false)

	_, err := uc.CreateRating(context.Background(), buyerID, productID, decimal.RequireFromString("9"))
	assert.ErrorIs(t, err, model.ErrPurchaseRequired)
	assert.Nil(t, repo.createdRating)
}

func TestUpdateRating_ValidatesBeforeStorage(t *testing.T) {
	_, _, uc := newUseCase(true)

	_, err := uc.UpdateRating(context.Background(), "some-id", buyerID, decimal.RequireFromString("11"))
	assert.ErrorIs(t, err, model.ErrRatingOutOfRange)
}
