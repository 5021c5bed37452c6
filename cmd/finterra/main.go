package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/HilmanThoriq/finterra-app/internal/auth"
	"github.com/HilmanThoriq/finterra-app/internal/cli"
	"github.com/HilmanThoriq/finterra-app/internal/events"
	"github.com/HilmanThoriq/finterra-app/internal/httpapi"
	applog "github.com/HilmanThoriq/finterra-app/internal/log"
	"github.com/HilmanThoriq/finterra-app/internal/places"
	"github.com/HilmanThoriq/finterra-app/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	// Record store
	result := cli.OpenStore(ctx, logger, cfg)
	st := result.Store
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}
	}()

	// Event publishing is optional; the API runs without a broker
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Event publishing disabled - no AMQP_URL provided")
	}

	issuer, err := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("Failed to initialize token issuer", "error", err)
		os.Exit(1)
	}

	var google auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		google = auth.NewGoogleVerifier(cfg.GoogleClientID)
	}

	var placesClient *places.Client
	if cfg.PlacesBaseURL != "" {
		placesClient = places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey)
	}

	srv := httpapi.NewServer(":"+cfg.Port, httpapi.Deps{
		Auth:          auth.NewService(st, issuer, google, logger),
		Expenses:      services.NewExpenseService(st, publisher),
		History:       services.NewHistoryService(st, st),
		Home:          services.NewHomeService(st, st),
		Budgets:       st,
		Notifications: st,
		Places:        placesClient,
		Logger:        applog.New(applog.Config{Handler: logger.Handler()}),
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		timeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(timeout); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting finterra server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
