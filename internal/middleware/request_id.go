package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/idea-tracker/internal/constants"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an ID and logs it on completion.
// An incoming X-Request-ID header is reused.
func RequestLogger(verbose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		if verbose || status >= 400 {
			log.Printf("[%s] %s %s %d %d %v",
				requestID,
				c.Request.Method,
				c.Request.URL.Path,
				status,
				c.Writer.Size(),
				time.Since(start),
			)
		}
	}
}

// GetRequestID returns the ID assigned by RequestLogger
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
