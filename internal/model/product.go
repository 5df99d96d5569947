package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	OwnerID         string          `db:"owner_id" json:"owner_id"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	Category        string          `db:"category" json:"category"`
	ListPrice       decimal.Decimal `db:"list_price" json:"list_price"`
	DiscountPercent int             `db:"discount_percent" json:"discount_percent"`
	StockQuantity   int             `db:"stock_quantity" json:"stock_quantity"`
	ImageURL        *string         `db:"image_url" json:"image_url"`
	IsDeleted       bool            `db:"is_deleted" json:"-"`
}
