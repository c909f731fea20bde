package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/athyk213/ISS-Tracker/internal/api"
	"github.com/athyk213/ISS-Tracker/internal/astro"
	"github.com/athyk213/ISS-Tracker/internal/config"
	"github.com/athyk213/ISS-Tracker/internal/feed"
	"github.com/athyk213/ISS-Tracker/internal/geocoding"
	"github.com/athyk213/ISS-Tracker/internal/metrics"
	"github.com/athyk213/ISS-Tracker/internal/service"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with Go runtime and process collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Create the reverse geocoding provider selected by configuration
	// (Nominatim by default, Google with ISS_GEOCODER_TYPE=google).
	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Geocoder.Type),
		APIKey:    cfg.Geocoder.APIKey,
		RateLimit: cfg.Geocoder.RateLimit,
		UserAgent: cfg.Geocoder.UserAgent,
		Language:  cfg.Geocoder.Language,
		Timeout:   cfg.Geocoder.Timeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}

	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)

	// The feed is downloaded on every request, nothing is cached between calls.
	fetcher := feed.NewFetcher(cfg.Feed.URL, cfg.Feed.Timeout, logger, appMetrics)
	// Init the resolver that places state vectors on the map and names the spot.
	resolver := service.NewResolver(
		logger,
		geoProvider,
		cfg.Geocoder.Type, // Provider name for metrics
		appMetrics,
		astro.EOP{
			DUT1:         cfg.EOP.DUT1,
			Xp:           cfg.EOP.PolarX,
			Yp:           cfg.EOP.PolarY,
			MeasuredPole: cfg.EOP.MeasuredPole,
		},
	)
	// Init the tracker that answers every API query.
	tracker := service.NewTracker(logger, fetcher, resolver, clockwork.NewRealClock())

	// The API server also serves /healthz and /metrics from the same registry.
	server := api.NewServer(fmt.Sprintf(":%d", cfg.Port), tracker, reg, appMetrics, logger)

	// Start the API server in a goroutine to allow main to listen for signals.
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "port", cfg.Port)

	// Wait for a signal or for the server to fail.
	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	case err := <-serverErr:
		logger.ErrorContext(ctx, "HTTP server failed", "error", err)
	}

	// Give in-flight requests ShutdownTimeout to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ErrorContext(shutdownCtx, "Graceful shutdown failed", "error", err)
		return
	}

	// Log graceful shutdown completion.
	logger.InfoContext(shutdownCtx, "Application stopped gracefully.")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
