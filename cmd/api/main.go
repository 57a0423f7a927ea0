package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/legals-assistant/internal/analysis"
	"github.com/wolfman30/legals-assistant/internal/api/router"
	appconfig "github.com/wolfman30/legals-assistant/internal/config"
	"github.com/wolfman30/legals-assistant/internal/i18n"
	"github.com/wolfman30/legals-assistant/internal/observability/metrics"
	"github.com/wolfman30/legals-assistant/internal/webchat"
	"github.com/wolfman30/legals-assistant/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	logger.Info("starting legals-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"analysis_base_url", cfg.AnalysisBaseURL,
	)

	srv := newServer(cfg, logger)

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

	// Let in-flight submissions settle before giving up.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newServer wires the analysis client, session registry and router.
func newServer(cfg *appconfig.Config, logger *logging.Logger) *http.Server {
	metricsHandler, sessionMetrics := setupMetrics(cfg.MetricsEnabled)

	client := analysis.NewClient(analysis.Config{
		BaseURL: cfg.AnalysisBaseURL,
		Timeout: cfg.AnalysisTimeout,
		Logger:  logger,
	})

	lang, err := i18n.ParseLanguage(cfg.DefaultLanguage)
	if err != nil {
		logger.Warn("invalid DEFAULT_LANGUAGE, using English", "value", cfg.DefaultLanguage)
		lang = i18n.EN
	}

	registry := webchat.NewRegistry(client, webchat.RegistryOptions{
		IdleTTL:         cfg.SessionIdleTTL,
		DefaultLanguage: lang,
		Logger:          logger,
		Metrics:         sessionMetrics,
	})

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        webchat.NewHandler(registry, cfg.MaxQueryLength, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       60 * time.Second,
	}
}

// setupMetrics returns the /metrics handler and session collectors backed by a
// dedicated registry. Both are nil when metrics are disabled.
func setupMetrics(enabled bool) (http.Handler, *metrics.SessionMetrics) {
	if !enabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sm := metrics.NewSessionMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), sm
}

// writeTimeout leaves room for a full analysis call plus rendering. A disabled
// analysis timeout disables the write timeout too.
func writeTimeout(cfg *appconfig.Config) time.Duration {
	if cfg.AnalysisTimeout <= 0 {
		return 0
	}
	return cfg.AnalysisTimeout + 15*time.Second
}

func shutdownTimeout(cfg *appconfig.Config) time.Duration {
	if cfg.AnalysisTimeout <= 0 || cfg.AnalysisTimeout < 30*time.Second {
		return 30 * time.Second
	}
	return cfg.AnalysisTimeout + 5*time.Second
}
