package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/stock"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "postgres")
	return NewPGRepository(db, stock.NewLedger()), mock
}

func samplePurchase() *model.Purchase {
	return &model.Purchase{
		ID:          "f0b9c6d3-0b65-4e8e-9a57-3f9a1c2d4e5f",
		ProductID:   "6a6f1912-25a6-4f3c-8f2e-04b75a7f2a01",
		UserID:      "9d1c3b5a-7e2f-4a6b-8c0d-1e3f5a7b9c0d",
		Quantity:    2,
		PurchasedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func reservationRows(listPrice string, discount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"list_price", "discount_percent"}).AddRow(listPrice, discount)
}

func TestExecutePurchase_CommitsDecrementAndInsertTogether(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := samplePurchase()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(p.Quantity, p.ProductID).
		WillReturnRows(reservationRows("100.00", 20))
	mock.ExpectExec(`INSERT INTO purchases`).
		WithArgs(p.ID, p.ProductID, p.UserID, sqlmock.AnyArg(), 20, p.Quantity, p.PurchasedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ExecutePurchase(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "80.00", p.UnitPrice.StringFixed(2))
	assert.Equal(t, 20, p.DiscountPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePurchase_PricesFromRowStateInTransaction(t *testing.T) {
	// The snapshot comes from the reservation statement, not from whatever
	// the caller read before the transaction opened.
	repo, mock := newMockRepo(t)
	p := samplePurchase()
	p.Quantity = 1

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(1, p.ProductID).
		WillReturnRows(reservationRows("90.00", 10))
	mock.ExpectExec(`INSERT INTO purchases`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ExecutePurchase(context.Background(), p))
	assert.Equal(t, "81.00", p.UnitPrice.StringFixed(2))
	assert.Equal(t, 10, p.DiscountPercent)
}

func TestExecutePurchase_RollsBackWhenStockRunsOut(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := samplePurchase()
	p.Quantity = 5

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(5, p.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"list_price", "discount_percent"}))
	mock.ExpectQuery(`SELECT stock_quantity FROM products`).
		WithArgs(p.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.ExecutePurchase(context.Background(), p)

	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePurchase_RollsBackWhenInsertFails(t *testing.T) {
	// The stock decrement must not survive a failed purchase insert.
	repo, mock := newMockRepo(t)
	p := samplePurchase()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(p.Quantity, p.ProductID).
		WillReturnRows(reservationRows("100.00", 20))
	mock.ExpectExec(`INSERT INTO purchases`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.ExecutePurchase(context.Background(), p)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutePurchase_SequentialBuyersOfLastUnit(t *testing.T) {
	repo, mock := newMockRepo(t)

	first := samplePurchase()
	first.Quantity = 1
	second := samplePurchase()
	second.ID = "aa0e8400-e29b-41d4-a716-446655440111"
	second.UserID = "bb0e8400-e29b-41d4-a716-446655440222"
	second.Quantity = 1

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(1, first.ProductID).
		WillReturnRows(reservationRows("50.00", 0))
	mock.ExpectExec(`INSERT INTO purchases`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE products`).
		WithArgs(1, second.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"list_price", "discount_percent"}))
	mock.ExpectQuery(`SELECT stock_quantity FROM products`).
		WithArgs(second.ProductID).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(0))
	mock.ExpectRollback()

	require.NoError(t, repo.ExecutePurchase(context.Background(), first))
	assert.Equal(t, "50.00", first.UnitPrice.StringFixed(2))

	err := repo.ExecutePurchase(context.Background(), second)
	var stockErr *model.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := "9d1c3b5a-7e2f-4a6b-8c0d-1e3f5a7b9c0d"

	mock.ExpectQuery(`SELECT count\(\*\) FROM purchases`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM purchases`).
		WithArgs(userID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "user_id", "unit_price", "discount_percent", "quantity", "purchased_at",
		}).AddRow(
			"f0b9c6d3-0b65-4e8e-9a57-3f9a1c2d4e5f",
			"6a6f1912-25a6-4f3c-8f2e-04b75a7f2a01",
			userID, "80.00", 20, 2,
			time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		))

	purchases, count, err := repo.FindByUser(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, purchases, 1)
	assert.Equal(t, "160.00", purchases[0].TotalPrice().StringFixed(2))
}
