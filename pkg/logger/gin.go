package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// Middleware logs one line per request and makes sure every request carries
// an X-Request-ID, generating one when the caller did not send it.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)

		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		line := "%s %s %d %s ip=%s rid=%s"
		args := []interface{}{c.Request.Method, path, status, time.Since(start).Round(time.Microsecond), c.ClientIP(), rid}
		switch {
		case status >= 500:
			Errorf(line, args...)
		case status >= 400:
			Warnf(line, args...)
		default:
			Infof(line, args...)
		}
	}
}

// RequestID returns the id assigned by Middleware, or "".
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
