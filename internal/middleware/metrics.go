package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/audlex/audlex-api/internal/service"
)

// Metrics captures request metrics labelled by route template. Requests that
// match no route share one label.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		metricsSvc.ObserveHTTPRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

// unmatchedRoute keeps unknown URLs from creating one series per path.
const unmatchedRoute = "unmatched"

func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return unmatchedRoute
}
