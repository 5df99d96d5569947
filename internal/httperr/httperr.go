// Package httperr maps domain errors onto HTTP responses. Anything not in
// the domain taxonomy is reported as an internal error, never misreported
// as a client fault.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecomarket/marketplace-service/internal/model"
)

func Respond(c *gin.Context, err error) {
	var stockErr *model.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     stockErr.Error(),
			"available": stockErr.Available,
		})
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrRatingOutOfRange),
		errors.Is(err, model.ErrEmptyName),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrInvalidDiscount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrProductUnavailable),
		errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrDuplicateFeedback),
		errors.Is(err, model.ErrDuplicateWishlist):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrPurchaseRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
