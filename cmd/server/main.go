// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"feeview/internal/clients/backend"
	"feeview/internal/config"
	"feeview/internal/events"
	"feeview/internal/handlers"
	"feeview/internal/logger"
	"feeview/internal/middleware"
	"feeview/internal/repositories"
	"feeview/internal/repositories/cache"
	"feeview/internal/routes"
	"feeview/internal/services/breakdown"
)

const version = "1.0.0"

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Connects the transaction source (backend API or read replica)
// - Wraps it in the transaction cache
// - Subscribes to settlement events
// - Configures routes and starts the HTTP server
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves until a termination signal or a listen error. Everything it
// opens is closed before it returns.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.LogLevel)

	source, db, err := openSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s transaction source: %w", cfg.Source, err)
	}
	if db != nil {
		defer func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					slog.Warn("failed to close database connection", "error", err)
				}
			}
		}()
	}

	store, closeStore := openCache(cfg)
	defer closeStore()

	cached := repositories.NewCachedSource(source, store, cfg.CacheTTL)

	if cfg.RabbitMQURL != "" {
		consumer, err := events.NewConsumer(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		defer consumer.Close()
		if err := consumer.Consume(cfg.RabbitMQExch, cfg.RabbitMQQueue, events.Bindings(cached, 5*time.Second)); err != nil {
			return fmt.Errorf("failed to start event consumer: %w", err)
		}
		slog.Info("listening for transaction events", "exchange", cfg.RabbitMQExch, "queue", cfg.RabbitMQQueue)
	}

	app := fiber.New(fiber.Config{
		AppName:      "feeview " + version,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(middleware.RequestID())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET,POST,HEAD,OPTIONS",
		AllowCredentials: true,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
	}))

	app.Use("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Health:    handlers.NewHealthHandler(store, cached, version),
		Breakdown: handlers.NewBreakdownHandler(breakdown.NewService(cached, cfg.DefaultLocale)),
		Pricing:   handlers.NewPricingHandler(cfg.DefaultLocale),
		Auth:      middleware.NewAuthMiddleware(cfg.JWTSecret),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.Port)
	}()
	slog.Info("server started", "port", cfg.Port, "source", cfg.Source, "locale", cfg.DefaultLocale)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server stopped: %w", err)
	case <-quit:
	}

	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// openSource connects the configured transaction source. db is non-nil only
// for the read-replica source.
func openSource(cfg config.Config) (repositories.TransactionSource, *gorm.DB, error) {
	switch cfg.Source {
	case config.SourceREST:
		client := backend.NewClient(cfg.BackendURL, cfg.BackendToken,
			backend.WithRateLimit(cfg.BackendRPS, cfg.BackendBurst))
		return client, nil, nil
	case config.SourcePostgres:
		db, err := repositories.OpenReplica(cfg)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to read replica", "host", cfg.DBHost, "db", cfg.DBName)
		return repositories.NewTransactionRepository(db), db, nil
	}
	return nil, nil, errors.New("unknown transaction source " + cfg.Source)
}

// openCache returns Redis when REDIS_HOST is set, otherwise an in-process cache.
func openCache(cfg config.Config) (cache.Store, func()) {
	if cfg.RedisHost == "" {
		slog.Info("using in-process transaction cache", "ttl", cfg.CacheTTL)
		return cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL+time.Minute), func() {}
	}

	client := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	svc := cache.NewCacheService(client, cfg.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.HealthCheck(ctx); err != nil {
		slog.Warn("redis unreachable, cache reads will miss", "error", err)
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := svc.GetStats()
				slog.Debug("redis pool stats", "hits", stats.Hits, "misses", stats.Misses,
					"timeouts", stats.Timeouts, "total_conns", stats.TotalConns, "idle_conns", stats.IdleConns)
			case <-stop:
				return
			}
		}
	}()

	return svc, func() {
		close(stop)
		if err := svc.Close(); err != nil {
			slog.Warn("failed to close Redis connection", "error", err)
		}
	}
}
