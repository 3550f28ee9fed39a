package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/daap14/roster/api"
	"github.com/daap14/roster/internal/api"
	"github.com/daap14/roster/internal/auth"
	"github.com/daap14/roster/internal/config"
	"github.com/daap14/roster/internal/employee"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	opener, err := employee.NewOpener(cfg.StoreBackend, cfg.StorePath, cfg.DatabaseURL)
	if err != nil {
		slog.Error("invalid store configuration", "error", err)
		os.Exit(1)
	}
	store := employee.NewGateway(opener)

	// Open eagerly so a broken store shows up in the logs at startup. A
	// failure is not fatal: the gateway retries on the next request.
	if err := store.Ping(context.Background()); err != nil {
		slog.Warn("employee store not ready; health will report degraded", "backend", cfg.StoreBackend, "error", err)
	}

	authService := auth.NewService(cfg.APIKeyHash, cfg.BcryptCost)
	if !authService.Enabled() {
		slog.Warn("API_KEY_HASH not set; JSON API and page mutations are unauthenticated")
	}

	router := api.NewRouter(api.RouterDeps{
		Store:        store,
		StoreBackend: cfg.StoreBackend,
		Version:      cfg.Version,
		Auth:         authService,
		OpenAPISpec:  specpkg.OpenAPISpec,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting roster server", "port", cfg.Port, "version", cfg.Version, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		_ = store.Close()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		_ = store.Close()
		os.Exit(1)
	}

	if err := store.Close(); err != nil {
		slog.Error("failed to close employee store", "error", err)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
