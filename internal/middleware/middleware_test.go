package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/internal/service"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/logger"
)

type stubValidator map[string]*models.SessionClaims

func (s stubValidator) ValidateToken(token string) (*models.SessionClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "")
}

func newSessionRouter(validator tokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Session(validator, "token")}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := SessionFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		userID, _ := c.Get(logger.SessionUserKey)
		c.JSON(http.StatusOK, gin.H{"name": claims.Name, "user": userID})
	})
	r.GET("/private", handlers...)
	return r
}

func TestSessionReadsCookieThenBearer(t *testing.T) {
	validator := stubValidator{
		"cookie-token": {UserID: 1, Name: "ana", Level: 1},
		"header-token": {UserID: 2, Name: "bruno", Level: 2},
	}
	r := newSessionRouter(validator)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"ana"`)
	assert.Contains(t, w.Body.String(), `"user":1`)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "bearer header-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"bruno"`)
}

func TestSessionMissingAndInvalidLookTheSame(t *testing.T) {
	r := newSessionRouter(stubValidator{})

	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/private", nil))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "forged"})
	invalid := httptest.NewRecorder()
	r.ServeHTTP(invalid, req)

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, missing.Code, invalid.Code)
	assert.Equal(t, missing.Body.String(), invalid.Body.String())
	assert.Contains(t, missing.Body.String(), "no session")
}

func TestRequireLevel(t *testing.T) {
	validator := stubValidator{
		"staff": {UserID: 1, Name: "ana", Level: 1},
		"admin": {UserID: 2, Name: "bruno", Level: 3},
	}
	r := newSessionRouter(validator, RequireLevel(models.LevelPrivileged))

	for token, status := range map[string]int{"staff": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, token)
	}
}

func TestRequireLevelWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireLevel(1), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsMiddlewareLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/hearings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hearings/5", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hearings/6", nil))
	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `path="/hearings/:id"`))
	assert.False(t, strings.Contains(body, `path="/hearings/5"`))
}

func TestMetricsMiddlewareGroupsUnmatchedRoutesUnderOneLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))

	for _, path := range []string{"/nowhere", "/wp-admin/setup.php", "/a/b/c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `path="unmatched"`)
	assert.NotContains(t, body, "wp-admin")
	assert.NotContains(t, body, `path="/nowhere"`)
}

func TestMetricsMiddlewareToleratesNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
