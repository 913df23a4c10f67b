package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Raw
// EDIFACT payloads arrive as request bodies, so this is the outer size
// gate in front of the codec's own message bound.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodePayloadTooLarge,
				"Request body exceeds maximum allowed size",
			))
			return
		}

		// Wrap the body with a limited reader for streaming requests
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
