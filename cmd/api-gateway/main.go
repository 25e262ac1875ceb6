package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/learning-progress-api/api/swagger"
	"github.com/noah-isme/learning-progress-api/internal/handler"
	"github.com/noah-isme/learning-progress-api/internal/middleware"
	"github.com/noah-isme/learning-progress-api/internal/repository"
	"github.com/noah-isme/learning-progress-api/internal/service"
	"github.com/noah-isme/learning-progress-api/pkg/cache"
	"github.com/noah-isme/learning-progress-api/pkg/config"
	"github.com/noah-isme/learning-progress-api/pkg/database"
	"github.com/noah-isme/learning-progress-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/learning-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/learning-progress-api/pkg/middleware/requestid"
)

// @title Learning Progress API
// @version 1.0.0
// @description Leaderboards, classroom analytics and student progress rollups
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()
	now := func() time.Time { return time.Now().In(cfg.Analytics.Location()) }

	records := repository.NewUserRecordRepository(db)
	loader := service.NewRecordLoader(records, metrics, logr, service.RecordLoaderConfig{
		Workers:     cfg.FanOut.Workers,
		ReadTimeout: cfg.FanOut.ReadTimeout,
	})

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Leaderboard.CacheTTL, logr,
		cfg.Leaderboard.CacheEnabled && redisClient != nil)

	leaderboards := service.NewLeaderboardService(service.LeaderboardServiceParams{
		Loader:     loader,
		Population: service.NewPopulationSelector(repository.NewFriendRepository(db)),
		Cache:      cacheSvc,
		Metrics:    metrics,
		Logger:     logr,
		Now:        now,
		Config: service.LeaderboardServiceConfig{
			DefaultLimit: cfg.Leaderboard.DefaultLimit,
			CacheTTL:     cfg.Leaderboard.CacheTTL,
		},
	})
	classes := service.NewClassAnalyticsService(service.ClassAnalyticsServiceParams{
		Rosters: repository.NewRosterRepository(db),
		Loader:  loader,
		Metrics: metrics,
		Logger:  logr,
		Now:     now,
	})

	validate := validator.New()
	analyticsParams := handler.AnalyticsHandlerParams{
		Classes:   classes,
		Alerts:    service.NewAlertService(loader, logr, now),
		Students:  service.NewStudentAnalyticsService(loader, logr, now),
		Validator: validate,
	}
	if cfg.Exports.Enabled {
		analyticsParams.Exporter = service.NewExportService(logr)
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metrics, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics", "/health"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Routes{
		Tokens:      service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer),
		Leaderboard: handler.NewLeaderboardHandler(leaderboards, validate, cfg.Leaderboard.MaxLimit),
		Analytics:   handler.NewAnalyticsHandler(analyticsParams),
		Metrics:     metricsHandler,
	}.Register(r.Group(cfg.APIPrefix))

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
