package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"serverless-adapter-kit/internal/adapters/storage"
	"serverless-adapter-kit/internal/config"
	"serverless-adapter-kit/internal/handlers"
	"serverless-adapter-kit/internal/middleware"
	"serverless-adapter-kit/pkg/express"
	"serverless-adapter-kit/pkg/lambda"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Storage capability backing the example handlers
	store, err := storage.New(storage.Config{
		Type: cfg.Storage.Type,
		Path: cfg.Storage.Path,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()
	kv := storage.NewRetryableKVStore(store, nil)

	budget := time.Duration(cfg.Adapter.TimeBudgetMS) * time.Millisecond

	// Lambda-mode adapter over the KV API
	kvHandler := handlers.NewLambdaKVHandler(kv)
	kvAdapter, err := lambda.New(kvHandler.Handle,
		lambda.WithRoutes(
			"/api/lambda/keys",
			"/api/lambda/kv/:key",
		),
		lambda.WithTimeBudget(budget),
	)
	if err != nil {
		log.Fatalf("Failed to build lambda adapter: %v", err)
	}

	echoAdapter, err := lambda.New(handlers.LambdaEcho, lambda.WithTimeBudget(budget))
	if err != nil {
		log.Fatalf("Failed to build echo adapter: %v", err)
	}

	// Express-mode adapter over the demo routes
	demoAdapter, err := express.New(handlers.ExpressDemo,
		express.WithRoutes(
			"/api/express/whoami",
			"/api/express/prefs",
			"/api/express/greet/:name",
		),
	)
	if err != nil {
		log.Fatalf("Failed to build express adapter: %v", err)
	}

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"storage":   cfg.Storage.Type,
		})
	})

	// Adapter-backed routes
	router.Any("/api/echo", gin.WrapH(echoAdapter))
	router.Any("/api/lambda/*path", gin.WrapH(kvAdapter))
	router.Any("/api/express/*path", gin.WrapH(demoAdapter))

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	logrus.WithField("port", cfg.Port).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server stopped")
}
