// cmd/server/main.go
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
	"github.com/joho/godotenv"

	"bitly-client/internal/cache"
	"bitly-client/internal/config"
	"bitly-client/internal/handler"
	"bitly-client/internal/service"
	"bitly-client/pkg/bitly"
	customLogger "bitly-client/pkg/logger"
)

func main() {
	// Simple health check for Docker - just make HTTP request to existing server
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		resp, err := http.Get("http://localhost:8081/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Initialize structured logger
	appLogger := customLogger.NewLogger()
	appLogger.Info("Starting bit.ly API facade")

	// Load application configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize Redis cache when enabled
	var redisCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warn("Failed to initialize Redis cache, continuing without cache", "error", err)
			redisCache = nil // Continue without cache
		}
	}

	// Build the bit.ly client for the configured account
	clientOpts := []bitly.Option{
		bitly.WithBaseURL(cfg.BitlyBaseURL),
		bitly.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		bitly.WithLogger(appLogger),
	}
	if cfg.ProDomainCheck {
		clientOpts = append(clientOpts, bitly.WithProDomainCheck())
	}
	apiClient := bitly.New(cfg.BitlyLogin, cfg.BitlyAPIKey, clientOpts...)

	// Initialize service layer with dependency injection
	shortenerService := service.NewShortenerService(apiClient, redisCache, cfg, appLogger)

	// Initialize HTTP handler
	bitlyHandler := handler.NewBitlyHandler(shortenerService, appLogger)

	// Setup HTTP router with middleware
	router := setupRouter(bitlyHandler, cfg, appLogger)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in a goroutine for graceful shutdown
	go func() {
		appLogger.Info("Server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with 30 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	// Close Redis connection
	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Error("Error closing Redis connection", "error", err)
		}
	}

	appLogger.Info("Server exited successfully")
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(bitlyHandler *handler.BitlyHandler, cfg *config.Config, log *customLogger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply global middleware
	router.Use(gin.Recovery()) // Panic recovery
	router.Use(handler.LoggerMiddleware(log))
	router.Use(handler.CORSMiddleware(cfg))
	router.Use(handler.SecurityHeadersMiddleware())
	router.Use(handler.RateLimitMiddleware(cfg.RateLimitPerMinute))
	router.Use(handler.TimeoutMiddleware(cfg.RequestTimeout + 5*time.Second))

	// Health check endpoint (no authentication required)
	router.GET("/health", bitlyHandler.Health)

	// API v1 routes, one per remote operation
	v1 := router.Group("/api/v1")
	bitlyHandler.RegisterRoutes(v1)

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
		})
	})

	return router
}
