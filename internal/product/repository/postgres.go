package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, owner_id, name, description, category,
            list_price, discount_percent, stock_quantity,
            image_url, is_deleted, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :name, :description, :category,
            :list_price, :discount_percent, :stock_quantity,
            :image_url, :is_deleted, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{"is_deleted = FALSE"}
	args := map[string]interface{}{}

	if f.OwnerID != "" {
		conditions = append(conditions, "owner_id = :owner_id")
		args["owner_id"] = f.OwnerID
	}
	if f.Category != "" {
		conditions = append(conditions, "category ILIKE :category")
		args["category"] = "%" + f.Category + "%"
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR category ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.InStock != nil {
		if *f.InStock {
			conditions = append(conditions, "stock_quantity > 0")
		} else {
			conditions = append(conditions, "stock_quantity = 0")
		}
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "list_price >= :min_price")
		args["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "list_price <= :max_price")
		args["max_price"] = *f.MaxPrice
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Whitelisted sort fields only
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "list_price"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &products, args)
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            category = :category,
            list_price = :list_price,
            discount_percent = :discount_percent,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id AND is_deleted = FALSE
    `
	res, err := r.DB.NamedExecContext(ctx, query, p)
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

func (r *PGRepository) SoftDelete(ctx context.Context, id, ownerID string) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE products
        SET is_deleted = TRUE, updated_at = NOW()
        WHERE id = $1 AND owner_id = $2 AND is_deleted = FALSE
    `, id, ownerID)
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
