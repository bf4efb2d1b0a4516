package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"toyexchange/internal/config"
	"toyexchange/internal/domain"
	"toyexchange/internal/engine"
	"toyexchange/internal/handler"
	"toyexchange/internal/ledger"
	"toyexchange/internal/metrics"
	"toyexchange/internal/service"
	"toyexchange/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	metrics.Init()

	// Stores and ledger.
	userStore := store.NewUserStore()
	orderStore := store.NewOrderStore()
	instrumentStore := store.NewInstrumentStore()
	transactionLog := store.NewTransactionLog()
	balances := ledger.New()

	// The cash instrument always exists.
	if err := instrumentStore.Create(&domain.Instrument{
		Ticker: domain.CashTicker,
		Name:   "Russian Ruble",
	}); err != nil {
		logger.Error("failed to seed cash instrument", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Engine.
	books := engine.NewBookManager()
	eng := engine.New(books, balances, orderStore, transactionLog)

	// Services.
	userSvc := service.NewUserService(userStore, balances)
	orderSvc := service.NewOrderService(eng, orderStore, instrumentStore)
	marketSvc := service.NewMarketService(instrumentStore, books, transactionLog)
	adminSvc := service.NewAdminService(userStore, instrumentStore, balances)

	// Seed the administrator when a key is configured.
	if cfg.AdminAPIKey != "" {
		admin, err := userSvc.BootstrapAdmin(cfg.AdminName, cfg.AdminAPIKey)
		if err != nil {
			logger.Error("failed to bootstrap admin", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("admin user seeded", slog.String("user_id", admin.ID))
	} else {
		logger.Warn("ADMIN_API_KEY not set, no admin user seeded")
	}

	// Router.
	router := handler.NewRouter(userSvc, orderSvc, marketSvc, adminSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
