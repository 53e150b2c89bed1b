package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"priceparty/internal/app"
	"priceparty/internal/catalog"
	"priceparty/internal/config"
	"priceparty/internal/domain"
	httpTransport "priceparty/internal/transport/http"
)

//go:embed web/*
var webFS embed.FS

func main() {
	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := config.Load()

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

	logger.Info("starting price party server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	// Load the item catalog
	items, err := catalog.Load(cfg.Game.CatalogFile)
	if err != nil {
		logger.Error("failed to load item catalog", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "items", len(items))

	// Create the single room session
	game := domain.NewGame(items, domain.NewScorer(cfg.Game.TolerancePercent))
	session := app.NewGameSession(game, cfg.Game.AutoAdvanceDelay, logger)
	defer session.Close()

	// Create HTTP server
	webContent, err := fs.Sub(webFS, "web")
	if err != nil {
		logger.Error("failed to get web subdirectory", "error", err)
		os.Exit(1)
	}
	server := httpTransport.NewServer(cfg, session, logger, webContent)

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
