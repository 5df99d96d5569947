package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ecomarket/marketplace-service/internal/model"
)

type ProductFilters struct {
	OwnerID     string
	Category    string
	SearchQuery string
	InStock     *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	SortBy      string // name, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

// ProductDetail is the catalog detail view: the product plus its effective
// unit price under the current discount.
type ProductDetail struct {
	model.Product
	FinalPrice decimal.Decimal `json:"final_price"`
}
