package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ReadinessFunc reports the availability of each critical dependency.
type ReadinessFunc func() map[string]bool

// RegisterHealth registers the root greeting, liveness and readiness routes.
func RegisterHealth(r *gin.Engine, ready ReadinessFunc) {
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello Doctors Portal!")
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{}
		if ready != nil {
			deps = ready()
		}
		uptime := time.Since(startTime).Round(time.Second).String()
		for _, ok := range deps {
			if !ok {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
