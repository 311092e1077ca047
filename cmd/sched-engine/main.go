package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sched-engine/api/swagger"
	"github.com/noah-isme/sched-engine/internal/auth"
	"github.com/noah-isme/sched-engine/internal/config"
	"github.com/noah-isme/sched-engine/internal/engine"
	internalhandler "github.com/noah-isme/sched-engine/internal/handler"
	internalmiddleware "github.com/noah-isme/sched-engine/internal/middleware"
	"github.com/noah-isme/sched-engine/internal/logger"
	"github.com/noah-isme/sched-engine/internal/metrics"
	"github.com/noah-isme/sched-engine/internal/store/postgres"
	"github.com/noah-isme/sched-engine/internal/store/rediscache"
	corsmiddleware "github.com/noah-isme/sched-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sched-engine/pkg/middleware/requestid"
)

// @title sched-engine API
// @version 0.1.0
// @description Master academic scheduling engine
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

	metricsCollector := metrics.New()
	metricsHandler := internalhandler.NewMetricsHandler(metricsCollector)

	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()
	store := postgres.New(db)

	redisClient, err := rediscache.Connect(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("sis cache disabled, redis unavailable", "error", err)
	} else {
		defer redisClient.Close()
	}

	sisGateway := rediscache.NewHTTPGateway(cfg.SIS)
	cachingGateway := rediscache.NewCachingGateway(sisGateway, redisClient, cfg.Redis.SISCacheTTL, logr)
	cachingGateway.SetMetrics(metricsCollector)

	schedEngine := engine.New(store, cachingGateway, cfg.Scheduler)
	schedEngine.SetMetrics(metricsCollector)

	authService := auth.New(store, logr, auth.Config{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     "sched-engine",
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsCollector))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := internalhandler.NewAuthHandler(authService)
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", authHandler.Login)
	protectedAuth := authRoutes.Group("")
	protectedAuth.Use(internalmiddleware.JWT(authService))
	protectedAuth.GET("/me", authHandler.Me)

	generatorHandler := internalhandler.NewScheduleGeneratorHandler(schedEngine, metricsCollector)
	scheduleHandler := internalhandler.NewScheduleHandler(schedEngine)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authService))

	secured.POST("/schedules/generate", internalmiddleware.RequireAdmin(), generatorHandler.Generate)
	secured.POST("/schedules/proposals/:proposalId/commit", internalmiddleware.RequireAdmin(), generatorHandler.CommitProposal)
	secured.POST("/schedules/:id/validate", scheduleHandler.Validate)
	secured.POST("/schedules/:id/check-slot", scheduleHandler.CheckSlot)
	secured.POST("/schedules/:id/publish", internalmiddleware.RequireAdmin(), scheduleHandler.Publish)
	secured.POST("/schedules/:id/archive", internalmiddleware.RequireAdmin(), scheduleHandler.Archive)
	secured.POST("/schedules/:id/clone", internalmiddleware.RequireAdmin(), scheduleHandler.Clone)
	secured.DELETE("/schedules/:id", internalmiddleware.RequireAdmin(), scheduleHandler.Delete)

	secured.POST("/courses/:courseId/match", internalmiddleware.RequireAdmin(), scheduleHandler.MatchCourse)

	secured.GET("/scheduler/feasibility", scheduleHandler.Feasibility)
	secured.GET("/scheduler/feasibility/report", scheduleHandler.FeasibilityReport)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
