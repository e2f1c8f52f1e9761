package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/poolcheck/internal"
	"github.com/DukeRupert/poolcheck/internal/handler"
	"github.com/DukeRupert/poolcheck/internal/metrics"
	"github.com/DukeRupert/poolcheck/internal/middleware"
	"github.com/DukeRupert/poolcheck/internal/repository"
	"github.com/DukeRupert/poolcheck/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize services
	companyService := service.NewCompanyService(repo, logger)
	waterTestService := service.NewWaterTestService(repo, logger)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(companyService, logger)
	ipLimiter := middleware.NewRateLimiter(cfg.APIIPRateLimit, cfg.APIRateWindow, logger)
	defer ipLimiter.Stop()
	companyLimiter := middleware.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateWindow, logger)
	defer companyLimiter.Stop()
	ipRateLimitMw := middleware.NewRateLimitMiddleware(ipLimiter, cfg.TrustProxyHeaders, logger)
	companyRateLimitMw := middleware.NewRateLimitMiddleware(companyLimiter, cfg.TrustProxyHeaders, logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword, logger)
	if cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		logger.Warn("METRICS_USERNAME and METRICS_PASSWORD are empty, /metrics is unprotected")
	}

	// Initialize handlers
	complianceHandler := handler.NewComplianceHandler(waterTestService, logger)
	waterTestHandler := handler.NewWaterTestHandler(waterTestService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// IP budget, then API key, then the company's budget
	requireCompany := middleware.APIStack(ipRateLimitMw, authMw, companyRateLimitMw)

	complianceHandler.RegisterRoutes(mux, requireCompany)
	waterTestHandler.RegisterRoutes(mux, requireCompany)

	// Unmatched /api/ paths get the JSON envelope instead of the mux's text 404
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		handler.NotFoundResponse(w, r, logger)
	})

	// Global middleware, outermost first. Request logging swaps the request
	// context, so it sits outside metrics, which reads the matched pattern
	// back off the request it passed to the mux.
	global := middleware.Stack(
		middleware.NewRequestLoggingMiddleware(logger, cfg.TrustProxyHeaders).Handler,
		metrics.Middleware,
		middleware.NewSecurityHeadersMiddleware(!cfg.IsDevelopment()).Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           global(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown...")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
