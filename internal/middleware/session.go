package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/logger"
	"github.com/audlex/audlex-api/pkg/response"
)

// ContextUserKey is the gin context key storing the session claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// Session requires a valid session token, read from the session cookie or,
// failing that, an Authorization Bearer header. A missing and an invalid
// token produce the same error.
func Session(validator tokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validator.ValidateToken(sessionToken(c, cookieName))
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.SessionUserKey, claims.UserID)
		c.Next()
	}
}

// SessionFromContext returns the claims stored by Session.
func SessionFromContext(c *gin.Context) (*models.SessionClaims, bool) {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.SessionClaims)
	return claims, ok && claims != nil
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			return token
		}
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
