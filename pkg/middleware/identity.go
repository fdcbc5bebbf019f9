package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/hafiz229/doctors-portal-server/pkg/metrics"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

const identityKey = "requesterEmail"

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

// VerifyEmail verifies raw and returns its email claim, lower-cased.
// Any failure yields ("", false); it never returns an error.
func VerifyEmail(ctx context.Context, ver Verifier, raw string) (string, bool) {
	tok, err := ver.Verify(ctx, raw)
	if err != nil {
		metrics.IdentityVerifications.WithLabelValues("rejected").Inc()
		logger.Debugf("identity: token rejected: %v", err)
		return "", false
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := tok.Claims(&claims); err != nil || strings.TrimSpace(claims.Email) == "" {
		metrics.IdentityVerifications.WithLabelValues("no_email").Inc()
		return "", false
	}
	metrics.IdentityVerifications.WithLabelValues("verified").Inc()
	return strings.ToLower(strings.TrimSpace(claims.Email)), true
}

// Identity attaches the verified requester email to the context when the
// request carries a bearer token. It never rejects a request: a missing or
// invalid token leaves the request unauthenticated and handlers that need an
// identity check for it themselves.
func Identity(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ver == nil {
			c.Next()
			return
		}
		if raw, ok := BearerToken(c.GetHeader("Authorization")); ok {
			if email, ok := VerifyEmail(c.Request.Context(), ver, raw); ok {
				c.Set(identityKey, email)
			}
		}
		c.Next()
	}
}

// RequesterEmail returns the identity established by Identity, if any.
func RequesterEmail(c *gin.Context) (string, bool) {
	email := c.GetString(identityKey)
	return email, email != ""
}
