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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/byhelaman/minerva-api/api/swagger"
	"github.com/byhelaman/minerva-api/internal/handler"
	"github.com/byhelaman/minerva-api/internal/middleware"
	"github.com/byhelaman/minerva-api/internal/models"
	"github.com/byhelaman/minerva-api/internal/repository"
	"github.com/byhelaman/minerva-api/internal/service"
	"github.com/byhelaman/minerva-api/pkg/cache"
	"github.com/byhelaman/minerva-api/pkg/config"
	"github.com/byhelaman/minerva-api/pkg/database"
	"github.com/byhelaman/minerva-api/pkg/jobs"
	"github.com/byhelaman/minerva-api/pkg/logger"
	corsmiddleware "github.com/byhelaman/minerva-api/pkg/middleware/cors"
	reqidmiddleware "github.com/byhelaman/minerva-api/pkg/middleware/requestid"
	"github.com/byhelaman/minerva-api/pkg/ratelimit"
	"github.com/byhelaman/minerva-api/pkg/storage"
)

// @title Minerva API
// @version 1.0.0
// @description Schedule import, meeting matching and assignment session service
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and rate limiting disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, 5*time.Minute, logr, true)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, 5*time.Minute, logr, false)
	}

	entryRepo := repository.NewScheduleEntryRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	authSvc := service.NewAuthService(cfg.JWT.Secret)
	scheduleSvc := service.NewScheduleService(entryRepo, cacheSvc, logr)
	meetingSvc := service.NewMeetingService(meetingRepo, cacheSvc, validate, logr, cfg.Sync.APIKeyHash, 5*time.Minute)
	matcher := service.NewMatcher(cfg.Matching)
	assignmentSvc := service.NewAssignmentService(entryRepo, meetingSvc, matcher, metricsSvc, logr, cfg.Sessions.TTL)

	var exportJobSvc *service.ExportJobService
	var queue *jobs.Queue
	if cfg.Exports.Enabled {
		store, storeErr := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if storeErr != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", storeErr)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(assignmentSvc, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr)
		worker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		queue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportJobSvc = service.NewExportJobService(exportJobRepo, queue, exportSvc, logr, service.ExportJobConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		queue.Start(ctx)
		defer queue.Stop()
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	var importLimiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		importLimiter = ratelimit.New(ratelimit.NewRedisStore(redisClient), nil, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)
	}

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	sessionHandler := handler.NewSessionHandler(assignmentSvc)
	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Authenticated by pre-shared key or signed token rather than JWT.
	api.POST("/meetings/sync", meetingHandler.Sync)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		editors := authed.Group("")
		editors.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator))
		{
			editors.POST("/schedule/import", middleware.RateLimit(importLimiter, logr), scheduleHandler.Import)
			editors.DELETE("/schedule/entries", scheduleHandler.ClearEntries)

			editors.POST("/sessions", sessionHandler.Create)
			editors.POST("/sessions/:id/rows/:rowId/select", sessionHandler.SelectCandidate)
			editors.POST("/sessions/:id/rows/:rowId/deselect", sessionHandler.DeselectCandidate)
			editors.POST("/sessions/:id/rows/:rowId/manual-mode", sessionHandler.ToggleManualMode)
			editors.POST("/sessions/:id/rows/:rowId/instructor", sessionHandler.SetInstructor)
			editors.POST("/sessions/:id/rows/:rowId/reset", sessionHandler.ResetRow)
			editors.POST("/sessions/:id/filters", sessionHandler.AddStatusFilter)
			editors.DELETE("/sessions/:id", sessionHandler.Delete)
		}

		authed.GET("/schedule/entries", scheduleHandler.ListEntries)
		authed.GET("/schedule/overlaps", scheduleHandler.Overlaps)
		authed.GET("/sessions/:id/rows", sessionHandler.Rows)
		authed.GET("/meetings", meetingHandler.List)

		authed.GET("/system/metrics", middleware.RequireRoles(models.RoleAdmin), metricsHandler.System)
	}

	if exportJobSvc != nil {
		exportHandler := handler.NewExportHandler(exportJobSvc)
		api.GET("/exports/download", exportHandler.Download)
		authed.POST("/exports", middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator), exportHandler.Create)
		authed.GET("/exports/:id", exportHandler.Status)
	}

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
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
