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

	"github.com/freightdocs/golang_services/internal/ledger_service/app"
	"github.com/freightdocs/golang_services/internal/ledger_service/repository/postgres"
	ledgerhttp "github.com/freightdocs/golang_services/internal/ledger_service/transport/http"
	"github.com/freightdocs/golang_services/internal/platform/config"
	"github.com/freightdocs/golang_services/internal/platform/database"
	"github.com/freightdocs/golang_services/internal/platform/logger"
	"github.com/freightdocs/golang_services/internal/platform/messagebroker"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName        = "ledger-service"
	defaultMetricsPort = 9091
	shutdownTimeout    = 15 * time.Second
)

// httpLogger is a middleware that logs HTTP requests using slog.
func httpLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			requestID := chiMiddleware.GetReqID(r.Context())

			next.ServeHTTP(ww, r)

			duration := time.Since(start)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int64("duration_ms", duration.Milliseconds()),
				slog.String("request_id", requestID),
			)
		}
		return http.HandlerFunc(fn)
	}
}

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	_ = godotenv.Load()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)

	metricsPort := cfg.LedgerServiceMetricsPort
	if metricsPort == 0 {
		metricsPort = defaultMetricsPort
		appLogger.Info("Ledger service metrics port not configured, using default", "port", metricsPort)
	}
	appLogger.Info("Ledger service starting...",
		"http_port", cfg.LedgerServiceHTTPPort,
		"metrics_port", metricsPort,
		"log_level", cfg.LogLevel,
	)

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Successfully connected to PostgreSQL")

	// The broker is optional; without it events are simply not published.
	var events messagebroker.Publisher
	if cfg.NATSUrl != "" {
		natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, serviceName, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer natsClient.Close()
		events = natsClient
		appLogger.Info("Successfully connected to NATS", "url", cfg.NATSUrl)
	} else {
		appLogger.Info("NATS URL not configured, event publishing disabled")
	}

	deliveryRepo := postgres.NewPgDeliveryRepository(appLogger)
	warningRepo := postgres.NewPgWarningRepository(appLogger)
	discardRepo := postgres.NewPgDiscardRepository(appLogger)

	ledgerApp := app.NewLedgerService(dbPool, deliveryRepo, warningRepo, discardRepo, events, appLogger)
	appLogger.Info("LedgerService initialized")

	validate := validator.New()
	ledgerHandler := ledgerhttp.NewLedgerHandler(ledgerApp, appLogger, validate)

	httpRouter := chi.NewRouter()
	httpRouter.Use(chiMiddleware.RequestID)
	httpRouter.Use(chiMiddleware.RealIP)
	httpRouter.Use(chiMiddleware.Recoverer)
	httpRouter.Use(httpLogger(appLogger))
	httpRouter.Use(ledgerhttp.PrometheusMetricsMiddleware)
	httpRouter.Route("/api/v1", ledgerHandler.RegisterRoutes)
	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.LedgerServiceHTTPPort),
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", metricsPort),
		Handler: metricsMux,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server ListenAndServe error", "error", err)
			return err
		}
		appLogger.Info("HTTP server shut down gracefully.")
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Metrics HTTP server starting", "address", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Metrics HTTP server ListenAndServe error", "error", err)
			return err
		}
		appLogger.Info("Metrics HTTP server shut down gracefully.")
		return nil
	})

	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)

	g.Go(func() error {
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
			mainCancel()
			return nil
		case <-groupCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Initiating graceful shutdown of servers...")

		shutdownCtx, cancelShutdownTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdownTimeout()

		var shutdownErrors error

		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics HTTP server graceful shutdown failed", "error", err)
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("metrics http shutdown: %w", err))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server graceful shutdown failed", "error", err)
			shutdownErrors = errors.Join(shutdownErrors, fmt.Errorf("http shutdown: %w", err))
		}
		return shutdownErrors
	})

	appLogger.Info("Ledger service is ready and running.")
	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Service group encountered an error during run/shutdown", "error", err)
		}
	}

	appLogger.Info("Ledger service shut down successfully.")
}
