package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/internal/auth"
	"github.com/ecomarket/marketplace-service/internal/feedback"
	"github.com/ecomarket/marketplace-service/internal/httperr"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
)

type FeedbackHandler struct {
	uc     feedback.UseCase
	logger logger.ZapLogger
}

func NewFeedbackHandler(uc feedback.UseCase, log logger.ZapLogger) *FeedbackHandler {
	return &FeedbackHandler{
		uc:     uc,
		logger: log,
	}
}

type reviewRequest struct {
	Body string `json:"review" binding:"required"`
}

type ratingRequest struct {
	Score decimal.Decimal `json:"rating" binding:"required"`
}

func (h *FeedbackHandler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.uc.CreateReview(c.Request.Context(), auth.GetUserID(c), c.Param("id"), req.Body)
	if err != nil {
		h.logger.Warn("review rejected", zap.String("product_id", c.Param("id")), zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *FeedbackHandler) UpdateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.uc.UpdateReview(c.Request.Context(), c.Param("id"), auth.GetUserID(c), req.Body)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_review": review})
}

func (h *FeedbackHandler) DeleteReview(c *gin.Context) {
	if err := h.uc.DeleteReview(c.Request.Context(), c.Param("id"), auth.GetUserID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FeedbackHandler) ListProductReviews(c *gin.Context) {
	page, pageSize := pagination(c)
	reviews, count, err := h.uc.ListProductReviews(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list product reviews", zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     page,
		"per_page": pageSize,
		"results":  reviews,
	})
}

func (h *FeedbackHandler) ListMyReviews(c *gin.Context) {
	page, pageSize := pagination(c)
	reviews, count, err := h.uc.ListUserReviews(c.Request.Context(), auth.GetUserID(c), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list user reviews", zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     page,
		"per_page": pageSize,
		"results":  reviews,
	})
}

func (h *FeedbackHandler) CreateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.uc.CreateRating(c.Request.Context(), auth.GetUserID(c), c.Param("id"), req.Score)
	if err != nil {
		h.logger.Warn("rating rejected", zap.String("product_id", c.Param("id")), zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}

func (h *FeedbackHandler) UpdateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.uc.UpdateRating(c.Request.Context(), c.Param("id"), auth.GetUserID(c), req.Score)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_rating": rating})
}

func (h *FeedbackHandler) DeleteRating(c *gin.Context) {
	if err := h.uc.DeleteRating(c.Request.Context(), c.Param("id"), auth.GetUserID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FeedbackHandler) ListMyRatings(c *gin.Context) {
	page, pageSize := pagination(c)
	ratings, count, err := h.uc.ListUserRatings(c.Request.Context(), auth.GetUserID(c), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list user ratings", zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    count,
		"page":     page,
		"per_page": pageSize,
		"results":  ratings,
	})
}

func (h *FeedbackHandler) ProductSummary(c *gin.Context) {
	summary, err := h.uc.ProductSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("failed to load feedback summary", zap.Error(err))
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
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
