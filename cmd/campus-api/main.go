package main

import (
	"context"
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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xianfire/campus-api/api/swagger"
	"github.com/xianfire/campus-api/internal/handler"
	"github.com/xianfire/campus-api/internal/middleware"
	"github.com/xianfire/campus-api/internal/models"
	"github.com/xianfire/campus-api/internal/repository"
	"github.com/xianfire/campus-api/internal/service"
	"github.com/xianfire/campus-api/pkg/cache"
	"github.com/xianfire/campus-api/pkg/config"
	"github.com/xianfire/campus-api/pkg/database"
	"github.com/xianfire/campus-api/pkg/jobs"
	"github.com/xianfire/campus-api/pkg/logger"
	corsmiddleware "github.com/xianfire/campus-api/pkg/middleware/cors"
	reqidmiddleware "github.com/xianfire/campus-api/pkg/middleware/requestid"
	"github.com/xianfire/campus-api/pkg/storage"
)

// @title Campus API
// @version 1.0.0
// @description University room scheduling with conflict detection
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, conflict report caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	validate := validator.New()

	scheduleRepo := repository.NewScheduleRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	conflictSvc := service.NewConflictService(scheduleRepo, roomRepo, cacheRepo, metricsSvc, cfg.Engine, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, conflictSvc, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, conflictSvc, validate, logr)
	buildingSvc := service.NewBuildingService(buildingRepo, validate, logr)
	collegeSvc := service.NewCollegeService(collegeRepo, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	reportFiles, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init report storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	reportSvc := service.NewReportService(conflictSvc, reportFiles, signer, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.ResultTTL,
		CleanupInterval: time.Hour,
		DownloadPath:    cfg.APIPrefix + "/reports/download",
	})

	reportQueue := jobs.NewQueue("reports", reportSvc.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc.SetQueue(reportQueue)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportQueue.Start(rootCtx)
	defer reportQueue.Stop()
	reportSvc.StartCleanup(rootCtx)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	buildingHandler := handler.NewBuildingHandler(buildingSvc)
	collegeHandler := handler.NewCollegeHandler(collegeSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	authed := middleware.JWT(authSvc)
	scheduler := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar)

	schedules := api.Group("/schedules")
	schedules.GET("", scheduleHandler.List)
	schedules.GET("/:id", scheduleHandler.Get)
	schedules.GET("/:id/conflicts", conflictHandler.ScheduleConflicts)
	schedules.POST("", authed, scheduler, scheduleHandler.Create)
	schedules.PUT("/:id", authed, scheduler, scheduleHandler.Update)
	schedules.DELETE("/:id", authed, scheduler, scheduleHandler.Delete)

	conflicts := api.Group("/conflicts")
	conflicts.GET("", conflictHandler.Report)
	conflicts.GET("/summary", conflictHandler.Summary)
	conflicts.POST("/validate", conflictHandler.Validate)
	conflicts.POST("/resolve", authed, scheduler, conflictHandler.AutoResolve)

	rooms := api.Group("/rooms")
	rooms.GET("", roomHandler.List)
	rooms.GET("/:id", roomHandler.Get)
	rooms.POST("", authed, scheduler, roomHandler.Create)
	rooms.PUT("/:id", authed, scheduler, roomHandler.Update)
	rooms.DELETE("/:id", authed, scheduler, roomHandler.Delete)

	buildings := api.Group("/buildings")
	buildings.GET("", buildingHandler.List)
	buildings.GET("/:id", buildingHandler.Get)
	buildings.POST("", authed, scheduler, buildingHandler.Create)
	buildings.PUT("/:id", authed, scheduler, buildingHandler.Update)
	buildings.DELETE("/:id", authed, scheduler, buildingHandler.Delete)

	colleges := api.Group("/colleges")
	colleges.GET("", collegeHandler.List)
	colleges.GET("/:id", collegeHandler.Get)
	colleges.POST("", authed, scheduler, collegeHandler.Create)
	colleges.PUT("/:id", authed, scheduler, collegeHandler.Update)
	colleges.DELETE("/:id", authed, scheduler, collegeHandler.Delete)

	reports := api.Group("/reports")
	reports.GET("/download", reportHandler.Download)
	reports.POST("", authed, reportHandler.Create)
	reports.GET("/:id", authed, reportHandler.Status)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown", zap.Error(err))
	}
}
