package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/security"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags each request with a ULID, honoring an inbound
// X-Request-ID when one is supplied.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = security.GenerateULID()
		}
		c.Set("requestID", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
