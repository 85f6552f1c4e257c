package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "niveshak/internal/errors"
)

// PipelineAuthMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured pipeline API key. With no key configured the
// pipeline routes are disabled.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			RenderError(c, apperrors.ErrPipelineNotConfigured)
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			RenderError(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
