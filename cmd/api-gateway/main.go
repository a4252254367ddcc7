package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/audlex/audlex-api/api/swagger"
	"github.com/audlex/audlex-api/internal/handler"
	"github.com/audlex/audlex-api/internal/repository"
	"github.com/audlex/audlex-api/internal/service"
	"github.com/audlex/audlex-api/pkg/cache"
	"github.com/audlex/audlex-api/pkg/config"
	"github.com/audlex/audlex-api/pkg/database"
	"github.com/audlex/audlex-api/pkg/export"
	"github.com/audlex/audlex-api/pkg/logger"
)

// @title AudLex API
// @version 1.0.0
// @description Court hearing and witness management for a legal office
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logr); err != nil {
			logr.Fatal("failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logr),
		metricsSvc,
		cfg.Cache.TTL,
		logr,
		cfg.Cache.Enabled && redisClient != nil,
	)

	hearingRepo := repository.NewHearingRepository(db)
	witnessRepo := repository.NewWitnessRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, metricsSvc, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr, cacheSvc)
	hearingSvc := service.NewHearingService(hearingRepo, witnessRepo, userRepo, db, cacheSvc, metricsSvc, validate, logr, service.HearingServiceConfig{
		QueryTimeout:            cfg.Database.QueryTimeout,
		WitnessFetchConcurrency: cfg.Hearings.WitnessFetchConcurrency,
		CacheTTL:                cfg.Cache.TTL,
	})
	witnessSvc := service.NewWitnessService(witnessRepo, hearingRepo, cacheSvc, metricsSvc, validate, logr, cfg.Database.QueryTimeout)
	exportSvc := service.NewExportService(hearingSvc, export.NewCSVExporter(';', true), export.NewPDFExporter(), metricsSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, logr, routeHandlers{
		auth: handler.NewAuthHandler(authSvc, handler.CookieSettings{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.MaxAge,
			Secure: cfg.Env == config.EnvProduction,
		}),
		users:     handler.NewUserHandler(userSvc),
		hearings:  handler.NewHearingHandler(hearingSvc, witnessSvc, exportSvc),
		witnesses: handler.NewWitnessHandler(witnessSvc),
		metrics:   handler.NewMetricsHandler(metricsSvc, db),
		sessions:  authSvc,
		recorder:  metricsSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
