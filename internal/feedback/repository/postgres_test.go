package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomarket/marketplace-service/internal/model"
)

const (
	productID = "6a6f1912-25a6-4f3c-8f2e-04b75a7f2a01"
	userID    = "9d1c3b5a-7e2f-4a6b-8c0d-1e3f5a7b9c0d"
	reviewID  = "c4d5e6f7-1111-2222-3333-444455556666"
	ratingID  = "d5e6f7a8-2222-3333-4444-555566667777"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPGRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func sampleReview() *model.Review {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return &model.Review{
		ID:        reviewID,
		ProductID: productID,
		UserID:    userID,
		Body:      "Sturdy, quiet switches.",
		CreatedAt: now,
		EditedAt:  now,
	}
}

func sampleRating() *model.Rating {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return &model.Rating{
		ID:        ratingID,
		ProductID: productID,
		UserID:    userID,
		Score:     decimal.RequireFromString("8.5"),
		CreatedAt: now,
		EditedAt:  now,
	}
}

func TestCreateReview_TranslatesUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reviews_product_user_unique"})

	err := repo.CreateReview(context.Background(), sampleReview())
	assert.ErrorIs(t, err, model.ErrDuplicateFeedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReview_TranslatesFKViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO reviews`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "reviews_product_id_fkey"})

	err := repo.CreateReview(context.Background(), sampleReview())
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCreateReview_Succeeds(t *testing.T) {
	repo, mock := newMockRepo(t)
	r := sampleReview()

	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(r.ID, r.ProductID, r.UserID, r.Body, r.CreatedAt, r.EditedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.CreateReview(context.Background(), r))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRating_TranslatesRangeViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO ratings`).
		WillReturnError(&pq.Error{Code: "23514", Constraint: "ratings_score_range"})

	err := repo.CreateRating(context.Background(), sampleRating())
	assert.ErrorIs(t, err, model.ErrRatingOutOfRange)
}

func TestCreateRating_TranslatesUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO ratings`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "ratings_product_user_unique"})

	err := repo.CreateRating(context.Background(), sampleRating())
	assert.ErrorIs(t, err, model.ErrDuplicateFeedback)
}

func TestTranslateConstraint_PassesThroughUnknownErrors(t *testing.T) {
	boom := errors.New("connection reset")
	assert.ErrorIs(t, translateConstraint(boom), boom)

	otherCheck := &pq.Error{Code: "23514", Constraint: "purchases_quantity_check"}
	assert.Equal(t, error(otherCheck), translateConstraint(otherCheck))
}

func TestUpdateReview_OwnerScoped(t *testing.T) {
	repo, mock := newMockRepo(t)
	r := sampleReview()

	t.Run("updates own review", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reviews`).
			WithArgs(r.Body, r.EditedAt, r.ID, r.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateReview(context.Background(), r))
	})

	t.Run("someone else's review looks like it does not exist", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reviews`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateReview(context.Background(), r)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestDeleteRating_OwnerScoped(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM ratings`).
		WithArgs(ratingID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteRating(context.Background(), ratingID, userID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFindReviewByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM reviews`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindReviewByID(context.Background(), reviewID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestHasPurchased(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(userID, productID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasPurchased(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSummary(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"review_count", "rating_count", "average_score"}).
			AddRow(4, 6, "8.3"))

	summary, err := repo.Summary(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, productID, summary.ProductID)
	assert.Equal(t, 4, summary.ReviewCount)
	assert.Equal(t, 6, summary.RatingCount)
	assert.Equal(t, "8.3", summary.AverageScore.String())
}

func TestFindReviewsByProduct(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM reviews`).
		WithArgs(productID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM reviews`).
		WithArgs(productID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "user_id", "body", "created_at", "edited_at"}).
			AddRow(reviewID, productID, userID, "Sturdy, quiet switches.", now, now))

	reviews, count, err := repo.FindReviewsByProduct(context.Background(), productID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, reviews, 1)
	assert.Equal(t, userID, reviews[0].UserID)
}
