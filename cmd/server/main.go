package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copaweb/internal/api"
	"copaweb/internal/app"
	"copaweb/internal/config"
	"copaweb/internal/i18n"
	httpTransport "copaweb/internal/transport/http"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	logger.Info("starting landing page server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"api", cfg.API.BaseURL,
		"failurePolicy", cfg.Form.FailurePolicy,
		"resetOrder", cfg.Form.ResetOrder,
	)

	bundle, err := i18n.LoadEmbedded(cfg.Server.DefaultLang)
	if err != nil {
		logger.Error("failed to load message catalogs", "error", err)
		os.Exit(1)
	}
	logger.Info("message catalogs loaded",
		"languages", bundle.Supported(),
		"default", bundle.Default(),
	)

	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		logger.Error("failed to get web subdirectory", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	bootstrap := app.NewBootstrapper(client, logger)

	// Create page hub
	hub := app.NewPageHub(client, app.FormOptions{
		FailurePolicy: app.FailurePolicy(cfg.Form.FailurePolicy),
		ResetOrder:    app.ResetOrder(cfg.Form.ResetOrder),
	}, cfg.Server.SessionTTL, logger)
	defer hub.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, hub, bootstrap, bundle, logger, webContent)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
