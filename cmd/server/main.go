package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/movie-catalog/internal/api"
	"github.com/dom/movie-catalog/internal/cache"
	"github.com/dom/movie-catalog/internal/config"
	"github.com/dom/movie-catalog/internal/events"
	"github.com/dom/movie-catalog/internal/logger"
	"github.com/dom/movie-catalog/internal/repository/postgres"
	"github.com/dom/movie-catalog/internal/service"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Initialize database
	dbLogLevel := gormLogger.Warn
	if cfg.IsDevelopment() {
		dbLogLevel = gormLogger.Info
	}
	db, err := postgres.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, dbLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Optional read cache and event publisher
	deps := service.Deps{Cache: cache.Nop(), Publisher: events.Nop()}
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("Redis unavailable, movie cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedisMovieCache(client, cfg.CacheTTL, "catalog", log)
			log.Info("Movie cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			log.Warn("RabbitMQ unavailable, movie events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.Publisher = publisher
			log.Info("Publishing movie events", zap.String("queue", cfg.EventsQueue))
		}
	}

	// Initialize services
	services := service.NewServices(repos, cfg, log, deps)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := services.Auth.SeedAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			log.Fatal("Failed to seed admin", zap.Error(err))
		}
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
