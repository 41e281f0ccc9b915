package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raymond9734/customer-records-api/internal/cache"
	"github.com/Raymond9734/customer-records-api/internal/cep"
	"github.com/Raymond9734/customer-records-api/internal/config"
	"github.com/Raymond9734/customer-records-api/internal/db"
	"github.com/Raymond9734/customer-records-api/internal/handler"
	"github.com/Raymond9734/customer-records-api/internal/repository"
	"github.com/Raymond9734/customer-records-api/internal/service"
	"github.com/Raymond9734/customer-records-api/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	logger.Info("starting customer records API server")

	// Tracing
	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Config{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Error("failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Connect to database
	database, err := db.New(cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		logger.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("connected to database")

	// Postal code lookup, optionally behind the Redis cache
	var resolver cep.AddressResolver = cep.NewViaCEPClient(cep.ViaCEPConfig{
		BaseURL: cfg.ViaCEP.BaseURL,
		Timeout: cfg.ViaCEP.Timeout,
	})

	var cacheHealth handler.HealthChecker
	if cfg.Cache.RedisURL != "" {
		addressCache, err := cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.Cache.RedisURL,
			TTL: cfg.Cache.TTL,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer addressCache.Close()

		resolver = cep.NewCachedResolver(resolver, addressCache, logger)
		cacheHealth = addressCache

		logger.Info("connected to Redis address cache")
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(database.DB)

	// Initialize services
	customerSvc := service.NewCustomerService(customerRepo, resolver, logger)

	// Setup router
	router := handler.NewRouter(handler.RouterConfig{
		Customers:      handler.NewCustomerHandler(customerSvc, logger),
		Health:         handler.NewHealthHandler(database, cacheHealth, logger),
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})

	// Create server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}

	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
		}

		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
		}

		logger.Info("server stopped gracefully")
	}
}
