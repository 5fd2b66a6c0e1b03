package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Federated-ICS/backend-webapp/database"
	"github.com/Federated-ICS/backend-webapp/internal/api/handler"
	"github.com/Federated-ICS/backend-webapp/internal/api/middleware"
	"github.com/Federated-ICS/backend-webapp/internal/api/repository"
	"github.com/Federated-ICS/backend-webapp/internal/api/service"
	"github.com/Federated-ICS/backend-webapp/internal/cache"
	"github.com/Federated-ICS/backend-webapp/internal/config"
	"github.com/Federated-ICS/backend-webapp/internal/graph"
	"github.com/Federated-ICS/backend-webapp/internal/realtime"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	graphStore, err := graph.NewStore(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		logger.Error("neo4j connection failed", "error", err)
		os.Exit(1)
	}
	defer graphStore.Close(context.Background())

	// Realtime plumbing: registry tracks connections and rooms, the
	// broadcaster fans messages out, the emitter maps domain events to rooms.
	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry, logger)
	emitter := realtime.NewEmitter(broadcaster, logger)

	wsHandler := realtime.NewHandler(
		registry,
		realtime.NewConnectionLimiter(int64(cfg.WSMaxConnections)),
		rate.NewLimiter(rate.Limit(cfg.WSHandshakeRate), cfg.WSHandshakeBurst),
		logger,
	)

	// Repositories and services
	alertRepo := repository.NewAlertRepo(db)
	flRepo := repository.NewFLRepo(db)
	predictionRepo := repository.NewPredictionRepo(db)
	dashCache := cache.NewDashboardCache(rdb, cfg.CacheTTL)

	alertService := service.NewAlertService(alertRepo, emitter, dashCache, logger)
	flService := service.NewFLService(flRepo, emitter, logger)
	predictionService := service.NewPredictionService(predictionRepo, emitter, logger)
	mitreService := service.NewMitreService(graphStore, emitter, logger)
	dashboardService := service.NewDashboardService(alertRepo, flRepo, dashCache, emitter, logger)

	// HTTP surface
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "ICS Threat Detection API",
			"status":  "running",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/ws", wsHandler.Serve())

	api := r.Group("/api")
	{
		handler.NewAlertHandler(alertService).RegisterRoutes(api)
		handler.NewFLHandler(flService).RegisterRoutes(api)
		handler.NewPredictionHandler(predictionService).RegisterRoutes(api)
		handler.NewMitreHandler(mitreService).RegisterRoutes(api)
		handler.NewDashboardHandler(dashboardService).RegisterRoutes(api)
		handler.NewEventsHandler(emitter).RegisterRoutes(api)
		api.GET("/ws/status", wsHandler.Status())
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
