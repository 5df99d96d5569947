package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/internal/auth"
	"github.com/ecomarket/marketplace-service/internal/httperr"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/product"
	"github.com/ecomarket/marketplace-service/internal/product/dto"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

type createProductRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	ListPrice       decimal.Decimal `json:"list_price" binding:"required"`
	DiscountPercent int             `json:"discount_percent"`
	StockQuantity   int             `json:"stock_quantity"`
	ImageURL        string          `json:"image_url"`
}

type updateProductRequest struct {
	Name            *string          `json:"name"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	ListPrice       *decimal.Decimal `json:"list_price"`
	DiscountPercent *int             `json:"discount_percent"`
	ImageURL        *string          `json:"image_url"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		OwnerID:         auth.GetUserID(c),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		ListPrice:       req.ListPrice,
		DiscountPercent: req.DiscountPercent,
		StockQuantity:   req.StockQuantity,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

func (h *ProductHandler) Get(c *gin.Context) {
	detail, err := h.uc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ProductHandler) List(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     filters.Page,
		"per_page": filters.PageSize,
		"results":  products,
	})
}

func (h *ProductHandler) ListMine(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filters.OwnerID = auth.GetUserID(c)

	products, count, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list own products", zap.Error(err))
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     filters.Page,
		"per_page": filters.PageSize,
		"results":  products,
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:              c.Param("id"),
		OwnerID:         auth.GetUserID(c),
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		ListPrice:       req.ListPrice,
		DiscountPercent: req.DiscountPercent,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.uc.DeleteProduct(c.Request.Context(), c.Param("id"), auth.GetUserID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilters(c *gin.Context) (*dto.ProductFilters, error) {
	filters := &dto.ProductFilters{
		SearchQuery: c.Query("search"),
		Category:    c.Query("category"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        1,
		PageSize:    20,
	}

	if v := c.Query("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return nil, errInvalidFilter("page")
		}
		filters.Page = page
	}
	if v := c.Query("per_page"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > 100 {
			return nil, errInvalidFilter("per_page")
		}
		filters.PageSize = size
	}
	if v := c.Query("in_stock"); v != "" {
		switch v {
		case "yes":
			t := true
			filters.InStock = &t
		case "no":
			f := false
			filters.InStock = &f
		default:
			return nil, errInvalidFilter("in_stock")
		}
	}
	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errInvalidFilter("min_price")
		}
		filters.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errInvalidFilter("max_price")
		}
		filters.MaxPrice = &d
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, errMinAboveMax
	}

	return filters, nil
}
