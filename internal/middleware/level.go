package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/response"
)

// RequireLevel rejects sessions below the given privilege level.
func RequireLevel(min int) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := SessionFromContext(c)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			c.Abort()
			return
		}
		if claims.Level < min {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient privilege level"))
			c.Abort()
			return
		}
		c.Next()
	}
}
