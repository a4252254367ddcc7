package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/audlex/audlex-api/internal/handler"
	"github.com/audlex/audlex-api/internal/middleware"
	"github.com/audlex/audlex-api/internal/models"
	"github.com/audlex/audlex-api/internal/service"
	"github.com/audlex/audlex-api/pkg/config"
	"github.com/audlex/audlex-api/pkg/logger"
	corsmiddleware "github.com/audlex/audlex-api/pkg/middleware/cors"
	reqidmiddleware "github.com/audlex/audlex-api/pkg/middleware/requestid"
)

type sessionValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

type routeHandlers struct {
	auth      *handler.AuthHandler
	users     *handler.UserHandler
	hearings  *handler.HearingHandler
	witnesses *handler.WitnessHandler
	metrics   *handler.MetricsHandler
	sessions  sessionValidator
	recorder  *service.MetricsService
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(h.recorder))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.auth.Login)
	auth.POST("/logout", h.auth.Logout)

	secured := api.Group("")
	secured.Use(middleware.Session(h.sessions, cfg.Session.CookieName))
	secured.GET("/auth/me", h.auth.Me)
	secured.GET("/users", h.users.List)

	hearings := secured.Group("/hearings")
	hearings.GET("", h.hearings.List)
	hearings.GET("/export", h.hearings.Export)
	hearings.GET("/:id", h.hearings.Get)
	hearings.GET("/:id/witnesses", h.hearings.Witnesses)
	hearings.POST("", middleware.RequireLevel(models.LevelPrivileged), h.hearings.Create)
	hearings.PUT("/:id", h.hearings.Update)
	hearings.DELETE("/:id", middleware.RequireLevel(models.LevelPrivileged), h.hearings.Delete)

	witnesses := secured.Group("/witnesses")
	witnesses.POST("", h.witnesses.Create)
	witnesses.PUT("/:id", h.witnesses.Update)
	witnesses.DELETE("/:id", h.witnesses.Delete)

	return r
}
