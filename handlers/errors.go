package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/hafiz229/doctors-portal-server/internal/payments"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
)

// respondError maps service errors to a status and an {"error": ...} body.
// Unclassified errors are logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, payments.ErrGatewayUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not available"})
	case errors.Is(err, payments.ErrGatewayFailed):
		logger.Warnf("%s %s: %v rid=%s", c.Request.Method, c.FullPath(), err, logger.RequestID(c))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment processor rejected the request"})
	default:
		logger.Errorf("%s %s: %v rid=%s", c.Request.Method, c.FullPath(), err, logger.RequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
