package handler

import (
	"net/http"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProtectedFunc is a handler that runs only for an authenticated caller.
type ProtectedFunc func(c *gin.Context, id domain.Identity)

// Protected adapts fn to gin, handing it the identity resolved by
// middleware.Auth. Mounted without Auth it fails closed with 401.
func Protected(fn ProtectedFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
			return
		}
		fn(c, id)
	}
}
