package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/internal/auth"
	"github.com/ecomarket/marketplace-service/internal/httperr"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/wishlist"
)

type WishlistHandler struct {
	uc     wishlist.UseCase
	logger logger.ZapLogger
}

func NewWishlistHandler(uc wishlist.UseCase, log logger.ZapLogger) *WishlistHandler {
	return &WishlistHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *WishlistHandler) Add(c *gin.Context) {
	item, err := h.uc.AddProduct(c.Request.Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		h.logger.Warn("wishlist add rejected", zap.String("product_id", c.Param("id")), zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"wishlist_item": item})
}

func (h *WishlistHandler) ListMine(c *gin.Context) {
	page, pageSize := pagination(c)
	entries, count, err := h.uc.ListByUser(c.Request.Context(), auth.GetUserID(c), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list wishlist", zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     page,
		"per_page": pageSize,
		"results":  entries,
	})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	if err := h.uc.Remove(c.Request.Context(), c.Param("id"), auth.GetUserID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (int, int) {
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
	return page, pageSize
}
