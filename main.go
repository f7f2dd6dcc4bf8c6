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
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	appLogger "github.com/yuneten/tabiplan/app/logger"
	"github.com/yuneten/tabiplan/app/observability/metrics"
	"github.com/yuneten/tabiplan/app/tracer"
	"github.com/yuneten/tabiplan/config"
	"github.com/yuneten/tabiplan/internal/planner"
	"github.com/yuneten/tabiplan/internal/router"
	"github.com/yuneten/tabiplan/internal/spots"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()
	appMetrics := metrics.Get()

	// --- Spot sources, external first, then curated, then the minimum list ---
	overpassSource := spots.NewOverpassSource(spots.OverpassConfig{
		Endpoint:        cfg.Overpass.Endpoint,
		CategoryTimeout: cfg.Overpass.CategoryTimeout,
		FetchBudget:     cfg.Overpass.FetchBudget,
		ResultLimit:     cfg.Overpass.ResultLimit,
		CacheTTL:        cfg.Overpass.CacheTTL,
	}, logger)
	overpassSource.OnQueryError = func() {
		appMetrics.ExternalFetchErrorsTotal.Add(context.Background(), 1)
	}
	staticSource := spots.NewStaticSource(logger)
	chain := spots.NewChain(overpassSource, staticSource, spots.NewMinimumSource())

	// --- Dependency Injection ---
	catalog := planner.NewCatalog()
	rng := planner.NewLockedRand(time.Now().UnixNano())
	plannerService := planner.NewServiceImpl(chain, staticSource, catalog, rng, appMetrics, logger)
	plannerHandler := planner.NewHandler(plannerService, logger)

	// --- Router Setup ---
	apiRouter := router.SetupRouter(&router.Config{
		PlannerHandler: plannerHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(cfg.Server.Timeout))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
