package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roleplay-online/backend/internal/store"
	"roleplay-online/backend/pkg/config"
	"roleplay-online/backend/pkg/di"
	"roleplay-online/backend/pkg/logger"
	"roleplay-online/backend/pkg/observability"
	"roleplay-online/backend/pkg/router"
	"roleplay-online/backend/pkg/secrets"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"))

	// Initialize secrets manager (Vault when configured, env fallback)
	if err := secrets.Init(log); err != nil {
		log.LogError(err, "Failed to initialize secrets manager")
		os.Exit(1)
	}
	ctx := context.Background()
	jwtSecret := secrets.GetSecretWithDefault(ctx, "jwt_secret", cfg.JWT.Secret)
	if key := secrets.GetSecretWithDefault(ctx, "gemini_api_key", cfg.Gemini.APIKey); key != "" {
		cfg.Gemini.APIKey = key
	}

	// Observability: tracing and the metrics endpoint
	shutdownTracing := observability.SetupTracing("roleplay-online")
	defer shutdownTracing()
	if cfg.Metrics.Enabled {
		observability.SetupPrometheusMetrics(cfg.Metrics.Port)
		log.Info("Metrics exposed", "port", cfg.Metrics.Port)
	}

	// Open the embedded store
	st, err := store.Open(cfg.Store.Path, log)
	if err != nil {
		log.LogError(err, "Failed to open store", "path", cfg.Store.Path)
		os.Exit(1)
	}
	defer st.Close()

	// Initialize dependency injection container
	diConfig := di.DefaultConfig()
	diConfig.LoggerConfig = logConfig
	diConfig.JWTSecret = jwtSecret
	diConfig.JWTExpiry = cfg.JWT.ExpiryHours

	container, err := di.New(st, diConfig)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	container.Health.Start()

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Add OpenAPI validation if schema file is available
	schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH")
	if schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	if err := st.Close(); err != nil {
		log.LogError(err, "Store close failed")
	}

	log.Info("Server exited gracefully")
}
