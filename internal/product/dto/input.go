package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	OwnerID         string
	Name            string
	Description     string
	Category        string
	ListPrice       decimal.Decimal
	DiscountPercent int
	StockQuantity   int
	ImageURL        string
}

type UpdateProductInput struct {
	ID              string
	OwnerID         string
	Name            *string
	Description     *string
	Category        *string
	ListPrice       *decimal.Decimal
	DiscountPercent *int
	ImageURL        *string
}
