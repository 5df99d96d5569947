package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ecomarket/marketplace-service/internal/model"
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	fkViolation     = "23503"

	ratingRangeConstraint = "ratings_score_range"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// translateConstraint maps postgres constraint violations onto domain
// errors. Anything unrecognized passes through untouched and surfaces as
// an internal error upstream.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return model.ErrDuplicateFeedback
	case checkViolation:
		if pqErr.Constraint == ratingRangeConstraint {
			return model.ErrRatingOutOfRange
		}
	case fkViolation:
		return model.ErrProductNotFound
	}
	return err
}

func (r *PGRepository) CreateReview(ctx context.Context, review *model.Review) error {
	query := `
        INSERT INTO reviews (id, product_id, user_id, body, created_at, edited_at)
        VALUES (:id, :product_id, :user_id, :body, :created_at, :edited_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, review); err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *PGRepository) UpdateReview(ctx context.Context, review *model.Review) error {
	query := `
        UPDATE reviews
        SET body = :body, edited_at = :edited_at
        WHERE id = :id AND user_id = :user_id
    `
	res, err := r.DB.NamedExecContext(ctx, query, review)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteReview(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PGRepository) FindReviewByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.DB.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *PGRepository) FindReviewsByProduct(ctx context.Context, productID string, page, pageSize int) ([]model.Review, int, error) {
	return r.listReviews(ctx, `product_id`, productID, page, pageSize)
}

func (r *PGRepository) FindReviewsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Review, int, error) {
	return r.listReviews(ctx, `user_id`, userID, page, pageSize)
}

func (r *PGRepository) listReviews(ctx context.Context, column, value string, page, pageSize int) ([]model.Review, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM reviews WHERE `+column+` = $1`, value); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM reviews WHERE ` + column + ` = $1 ORDER BY created_at DESC`
	args := []interface{}{value}
	if pageSize > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	var reviews []model.Review
	if err := r.DB.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, 0, err
	}
	return reviews, count, nil
}

func (r *PGRepository) CreateRating(ctx context.Context, rating *model.Rating) error {
	query := `
        INSERT INTO ratings (id, product_id, user_id, score, created_at, edited_at)
        VALUES (:id, :product_id, :user_id, :score, :created_at, :edited_at)
    `
	if _, err := r.DB.NamedExecContext(ctx, query, rating); err != nil {
		return translateConstraint(err)
	}
	return nil
}

func (r *PGRepository) UpdateRating(ctx context.Context, rating *model.Rating) error {
	query := `
        UPDATE ratings
        SET score = :score, edited_at = :edited_at
        WHERE id = :id AND user_id = :user_id
    `
	res, err := r.DB.NamedExecContext(ctx, query, rating)
	if err != nil {
		return translateConstraint(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PGRepository) DeleteRating(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *PGRepository) FindRatingByID(ctx context.Context, id string) (*model.Rating, error) {
	var rating model.Rating
	err := r.DB.GetContext(ctx, &rating, `SELECT * FROM ratings WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *PGRepository) FindRatingsByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Rating, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM ratings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM ratings WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if pageSize > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, pageSize, (page-1)*pageSize)
	}

	var ratings []model.Rating
	if err := r.DB.SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, 0, err
	}
	return ratings, count, nil
}

func (r *PGRepository) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.DB.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND product_id = $2)`,
		userID, productID)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Summary aggregates feedback for a product in one explicit query instead
// of per-caller ad hoc lookups.
func (r *PGRepository) Summary(ctx context.Context, productID string) (*model.FeedbackSummary, error) {
	summary := model.FeedbackSummary{ProductID: productID}
	query := `
        SELECT
            (SELECT count(*) FROM reviews WHERE product_id = $1) AS review_count,
            (SELECT count(*) FROM ratings WHERE product_id = $1) AS rating_count,
            (SELECT COALESCE(round(avg(score), 1), 0) FROM ratings WHERE product_id = $1) AS average_score
    `
	row := r.DB.QueryRowxContext(ctx, query, productID)
	if err := row.Scan(&summary.ReviewCount, &summary.RatingCount, &summary.AverageScore); err != nil {
		return nil, err
	}
	return &summary, nil
}
