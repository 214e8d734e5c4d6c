package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
)

// ReadOnly rejects every unsafe method with READ_ONLY when enabled.
// GET, HEAD and OPTIONS always pass.
func ReadOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			abortWithError(c, apperrors.ErrReadOnly)
		}
	}
}
