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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/growthops/lead-intake/cmd/mainconfig"
	"github.com/growthops/lead-intake/internal/api/router"
	"github.com/growthops/lead-intake/internal/app/bootstrap"
	appconfig "github.com/growthops/lead-intake/internal/config"
	"github.com/growthops/lead-intake/internal/http/handlers"
	"github.com/growthops/lead-intake/internal/leads"
	"github.com/growthops/lead-intake/internal/notify"
	"github.com/growthops/lead-intake/internal/observability/metrics"
	"github.com/growthops/lead-intake/internal/requestmeta"
	"github.com/growthops/lead-intake/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lead-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// AWS config is only required when a component actually talks to AWS.
	var awsCfg aws.Config
	if cfg.LeadStore == "dynamodb" || cfg.EmailProvider == "ses" {
		var err error
		awsCfg, err = mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
	}

	// Initialize persistence and notification collaborators
	store, cleanup, err := bootstrap.BuildLeadStore(context.Background(), cfg, awsCfg, logger)
	if err != nil {
		logger.Error("failed to build lead store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	emailSender, reason := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	if emailSender == nil {
		logger.Info("lead email notifications disabled", "reason", reason)
	}

	geo := bootstrap.BuildGeoResolver(cfg, logger)
	defer geo.Close()

	var notifier leads.Notifier
	if dispatcher := notify.NewDispatcher(emailSender, cfg.Notify, logger); dispatcher != nil {
		notifier = dispatcher
	}

	// Initialize the intake pipeline and handlers
	leadMetrics := metrics.NewLeadMetrics(nil)
	validator := leads.NewValidator(cfg.Validation)
	service := leads.NewService(validator, store, notifier, leadMetrics, logger, leads.Options{
		NotifyTimeout: cfg.Notify.Timeout,
	})
	leadsHandler := leads.NewHandler(service, logger)
	statsHandler := handlers.NewStatsHandler(nil, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		StatsHandler:       statsHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetaMiddleware:     requestmeta.Middleware(geo),
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
