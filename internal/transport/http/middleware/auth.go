package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	ctxlog "github.com/ErlanBelekov/calendar-api/internal/log"
	"github.com/ErlanBelekov/calendar-api/internal/metrics"
	"github.com/ErlanBelekov/calendar-api/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errAuthRequired = "Authentication required"
	errTokenInvalid = "Token is invalid or expired"

	identityKey = "identity"
)

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth requires a Bearer token. A missing or non-Bearer header is 401; a
// token that fails verification is 403. On success the caller's
// domain.Identity is stored on the gin context and its user id on the
// request context for logging.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthGateRejectionsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
			return
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			metrics.AuthGateRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errTokenInvalid})
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok && id.UserID != ""
}
