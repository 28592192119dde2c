package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/pacificreef/hotel-analytics-api/api/swagger"
	"github.com/pacificreef/hotel-analytics-api/internal/handler"
	"github.com/pacificreef/hotel-analytics-api/internal/middleware"
	"github.com/pacificreef/hotel-analytics-api/internal/repository"
	"github.com/pacificreef/hotel-analytics-api/internal/service"
	"github.com/pacificreef/hotel-analytics-api/pkg/config"
	"github.com/pacificreef/hotel-analytics-api/pkg/database"
	"github.com/pacificreef/hotel-analytics-api/pkg/logger"
	corsmiddleware "github.com/pacificreef/hotel-analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pacificreef/hotel-analytics-api/pkg/middleware/requestid"
	"github.com/pacificreef/hotel-analytics-api/pkg/storage"
)

// @title Pacific Reef Hotel Analytics API
// @version 1.0.0
// @description Operational analytics for the Pacific Reef Hotel reservation system
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

	// Analytics stay available without the store: every aggregator falls
	// back to synthetic data, so a failed ping is a warning, not a fatal.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		if db == nil {
			logr.Fatal("failed to open reservation store", zap.Error(err))
		}
		logr.Warn("reservation store unreachable, analytics will serve synthetic data", zap.Error(err))
	}

	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to init report storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	repo := repository.NewAnalyticsRepository(db)
	metricsSvc := service.NewMetricsService()
	synthetic := service.NewSyntheticGenerator(cfg.Analytics, nil, nil)
	analyticsSvc := service.NewAnalyticsService(repo, synthetic, metricsSvc, logr, cfg.Analytics, nil)
	dashboardSvc := service.NewDashboardService(analyticsSvc, logr, cfg.Analytics.DefaultRangeDays, nil)
	exportSvc := service.NewExportService(analyticsSvc, reportStore, signer, nil, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.ResultTTL,
	}, logr, nil)

	go cleanupLoop(exportSvc, logr)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, dashboardSvc, cfg.Analytics.DefaultRangeDays, nil)
	exportHandler := handler.NewExportHandler(exportSvc, cfg.Analytics.DefaultRangeDays, nil)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

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
	analytics := api.Group("/analytics")
	{
		analytics.GET("/occupancy", analyticsHandler.Occupancy)
		analytics.GET("/revenue", analyticsHandler.Revenue)
		analytics.GET("/customers", analyticsHandler.Customers)
		analytics.GET("/rooms", analyticsHandler.Rooms)
		analytics.GET("/predictions", analyticsHandler.Predictions)
		analytics.GET("/dashboard", analyticsHandler.Dashboard)
		analytics.POST("/export", exportHandler.Export)
		analytics.GET("/export/:token", exportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// cleanupLoop prunes expired report artifacts once an hour.
func cleanupLoop(exportSvc *service.ExportService, logr *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		removed, err := exportSvc.Cleanup(0)
		if err != nil {
			logr.Warn("report cleanup failed", zap.Error(err))
			continue
		}
		if len(removed) > 0 {
			logr.Info("expired reports removed", zap.Int("count", len(removed)))
		}
	}
}
