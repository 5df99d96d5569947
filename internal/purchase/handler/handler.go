package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/internal/auth"
	"github.com/ecomarket/marketplace-service/internal/httperr"
	"github.com/ecomarket/marketplace-service/internal/model"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/purchase"
)

type PurchaseHandler struct {
	uc     purchase.UseCase
	logger logger.ZapLogger
}

func NewPurchaseHandler(uc purchase.UseCase, log logger.ZapLogger) *PurchaseHandler {
	return &PurchaseHandler{
		uc:     uc,
		logger: log,
	}
}

// Quantity deliberately carries no binding rule: zero and negative
// values must reach the quantity check so they report its error kind.
type purchaseRequest struct {
	Quantity int `json:"quantity"`
}

type purchaseResponse struct {
	PurchaseID      string `json:"purchase_id"`
	ProductID       string `json:"product_id"`
	UnitPrice       string `json:"unit_price"`
	DiscountPercent int    `json:"discount_percent"`
	Quantity        int    `json:"quantity"`
	TotalPrice      string `json:"total_price"`
	PurchasedAt     string `json:"purchased_at"`
}

func (h *PurchaseHandler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.uc.Purchase(c.Request.Context(), auth.GetUserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		h.logger.Warn("purchase rejected",
			zap.String("product_id", c.Param("id")),
			zap.Error(err),
		)
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Purchase Successful",
		"purchase_info": toResponse(p),
	})
}

func (h *PurchaseHandler) ListMine(c *gin.Context) {
	page, pageSize := 1, 20
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	purchases, count, err := h.uc.ListByUser(c.Request.Context(), auth.GetUserID(c), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list purchases", zap.Error(err))
		httperr.Respond(c, err)
		return
	}

	results := make([]purchaseResponse, len(purchases))
	for i := range purchases {
		results[i] = toResponse(&purchases[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     page,
		"per_page": pageSize,
		"results":  results,
	})
}

func toResponse(p *model.Purchase) purchaseResponse {
	return purchaseResponse{
		PurchaseID:      p.ID,
		ProductID:       p.ProductID,
		UnitPrice:       p.UnitPrice.StringFixed(2),
		DiscountPercent: p.DiscountPercent,
		Quantity:        p.Quantity,
		TotalPrice:      p.TotalPrice().StringFixed(2),
		PurchasedAt:     p.PurchasedAt.Format("2006-01-02 15:04:05"),
	}
}
