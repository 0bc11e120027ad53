package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bukid/internal/amqp"
	"bukid/internal/auth"
	"bukid/internal/config"
	apphttp "bukid/internal/http"
	applog "bukid/internal/log"
	"bukid/internal/storage"
	"bukid/internal/weather"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New("bukid-api", slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	verifier := auth.NewVerifier(cfg.JWTSecret, auth.NewRolePolicy(cfg.AdminEmail))

	var fetch weather.FetchFunc
	if cfg.WeatherAPIKey != "" {
		fetch = weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout).Fetch()
		logger.Info("Weather provider configured", "refresh", cfg.WeatherRefresh)
	} else {
		logger.Info("Weather provider disabled - serving sample data")
	}

	// The export queue is optional; without a broker the worker's sweep over
	// unexported rows still publishes the ledger eventually.
	var ledger apphttp.LedgerPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		ledger = amqpClient
		logger.Info("Ledger export queue connected", "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Ledger export queue disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:                ":" + cfg.Port,
		TotalBudgetCentavos: cfg.TotalBudgetCentavos,
		WeatherRefresh:      cfg.WeatherRefresh,
	}, store, verifier, fetch, ledger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting bukid server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
