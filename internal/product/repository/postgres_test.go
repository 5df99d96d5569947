package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomarket/marketplace-service/internal/model"
)

const (
	productID = "6a6f1912-25a6-4f3c-8f2e-04b75a7f2a01"
	ownerID   = "11111111-2222-3333-4444-555555555555"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPGRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func productColumns() []string {
	return []string{
		"id", "owner_id", "name", "description", "category",
		"list_price", "discount_percent", "stock_quantity",
		"image_url", "is_deleted", "created_at", "updated_at",
	}
}

func TestFindByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("returns the product", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM products`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(productColumns()).AddRow(
				productID, ownerID, "Mechanical keyboard", "Hot-swappable", "peripherals",
				"100.00", 20, 10, nil, false, now, now,
			))

		p, err := repo.FindByID(context.Background(), productID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Mechanical keyboard", p.Name)
		assert.Equal(t, 20, p.DiscountPercent)
		assert.Equal(t, "100.00", p.ListPrice.StringFixed(2))
	})

	t.Run("missing product yields nil without error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM products`).
			WithArgs(productID).
			WillReturnRows(sqlmock.NewRows(productColumns()))

		p, err := repo.FindByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestUpdate_OwnerScoped(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := &model.Product{
		OwnerID:         ownerID,
		Name:            "Mechanical keyboard",
		DiscountPercent: 10,
	}
	p.ID = productID

	t.Run("owner updates their product", func(t *testing.T) {
		mock.ExpectExec(`UPDATE products`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), p))
	})

	t.Run("another user's product behaves as missing", func(t *testing.T) {
		mock.ExpectExec(`UPDATE products`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), p)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestSoftDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	t.Run("marks the row deleted", func(t *testing.T) {
		mock.ExpectExec(`UPDATE products`).
			WithArgs(productID, ownerID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete(context.Background(), productID, ownerID))
	})

	t.Run("already deleted or foreign row is not found", func(t *testing.T) {
		mock.ExpectExec(`UPDATE products`).
			WithArgs(productID, ownerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete(context.Background(), productID, ownerID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
