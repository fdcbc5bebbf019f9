package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
)

// AdminChecker reports whether the user with the given email is an admin.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin rejects requests whose verified requester is missing or not an
// admin with 403. A failed lookup is a 500.
func RequireAdmin(users AdminChecker, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := RequesterEmail(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		admin, err := users.IsAdmin(c.Request.Context(), email)
		if err != nil {
			logger.Errorf("admin check for %s failed: %v", email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}
