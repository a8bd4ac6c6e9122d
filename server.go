package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"rail-planner/cache"
	"rail-planner/config"
	"rail-planner/database"
	"rail-planner/events"
	"rail-planner/handlers"
	"rail-planner/logging"
	"rail-planner/services"
	"rail-planner/store"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "port to listen on (overrides SERVER_PORT)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if port := c.String("port"); port != "" {
				cfg.ServerPort = port
			}
			return runServer(c.Context, cfg, logging.GetLogger())
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if path := c.String("timetable"); path != "" {
		cfg.TimetablePath = path
	}
	// .env is only read by config.Load, after the logger was created
	logging.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) error {
	logger.Infow("Starting rail planner", "store", cfg.StoreDriver, "timetable", cfg.TimetablePath)

	// The graph is built once and only read afterwards
	graph, err := loadGraph(cfg.TimetablePath, logger)
	if err != nil {
		return err
	}

	ledger, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var searchCache services.SearchCache
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Warnw("Search cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			if _, err := redisCache.PurgeSearches(ctx, graph.Version()); err != nil {
				logger.Warnw("Failed to purge stale searches", "error", err)
			}
			searchCache = redisCache
		}
	}

	var publisher services.EventPublisher
	if cfg.MQEnabled {
		rabbit, err := events.NewRabbitPublisher(cfg.MQURL, cfg.MQQueue, logger)
		if err != nil {
			logger.Warnw("Booking events disabled", "error", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	h := handlers.NewHandler(
		services.NewSearchService(graph, searchCache, cfg.SearchCacheTTL, logger),
		services.NewBookingService(ledger, publisher, logger),
		logger,
	)
	router := setupRouter(h, cfg, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (store.Store, func(), error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Warn("Using in-memory ledger, bookings are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store.NewPostgresStore(db, logger), func() { db.Close() }, nil
}

func setupRouter(h *handlers.Handler, cfg *config.Config, logger *zap.SugaredLogger) *gin.Engine {
	// Set Gin to release mode in production
	if cfg.GinMode != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", h.Health)

	// API routes
	h.Register(router.Group("/api"))

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
