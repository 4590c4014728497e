package middleware

import (
	"github.com/ErlanBelekov/calendar-api/internal/requestid"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to the context and echoes it in the
// response. A well-formed incoming X-Request-ID is kept; anything else is
// replaced with a fresh UUID so log lines stay parseable.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !requestid.Valid(id) {
			id = requestid.New()
		}

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
