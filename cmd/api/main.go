package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/todalabs/toda-leads/internal/airtable"
	"github.com/todalabs/toda-leads/internal/api/router"
	appconfig "github.com/todalabs/toda-leads/internal/config"
	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/internal/notify"
	"github.com/todalabs/toda-leads/internal/observability/metrics"
	"github.com/todalabs/toda-leads/pkg/logging"
)

func main() {
	// Load configuration (.env only outside production)
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting toda-leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.AllowForceError && cfg.IsProduction() {
		logger.Error("ALLOW_FORCE_ERROR must not be enabled in production")
		os.Exit(1)
	}

	// Initialize the lead store
	store := buildStore(cfg, logger)

	// Optional operator notifications
	var notifier leads.Notifier
	if svc := buildNotifier(cfg, logger); svc != nil {
		notifier = svc
	}

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)

	leadsHandler := leads.NewHandler(leads.HandlerConfig{
		Store:           store,
		Notifier:        notifier,
		Metrics:         leadMetrics,
		Logger:          logger,
		AllowForceError: cfg.AllowForceError,
	})

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStore wires the Airtable store, falling back to the in-memory store
// in development when no credentials are configured at all. In production
// the Airtable client is always used so misconfiguration surfaces as
// internal errors, logged with the missing variable names.
func buildStore(cfg *appconfig.Config, logger *logging.Logger) leads.Store {
	baseID, tableName := cfg.SplitBaseID()
	atCfg := airtable.Config{
		BaseID:    baseID,
		TableName: tableName,
		APIKey:    cfg.AirtableAPIKey,
	}

	if missing := atCfg.MissingVars(); len(missing) > 0 {
		logger.Warn("airtable configuration incomplete", "missing", missing)
		if !cfg.IsProduction() && len(missing) == 3 {
			logger.Warn("using in-memory lead store (development only)")
			return leads.NewInMemoryStore()
		}
	}

	return airtable.New(atCfg, logger)
}

func buildNotifier(cfg *appconfig.Config, logger *logging.Logger) *notify.Service {
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender == nil {
		return nil
	}
	return notify.NewService(sender, cfg.NotifyEmail, logger)
}
