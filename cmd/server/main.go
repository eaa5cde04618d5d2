package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/clinical-data-api/internal/config"
	"github.com/yukikurage/clinical-data-api/internal/router"
	"github.com/yukikurage/clinical-data-api/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.SeedFixtures {
		seeded, err := storage.SeedIfEmpty(ctx, store)
		if err != nil {
			return err
		}
		slog.Info("fixtures checked", slog.Bool("seeded", seeded))
	}

	sessionStore, err := router.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	r, err := router.New(cfg, store, sessionStore)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("storage", cfg.StorageDriver),
			slog.Bool("redis_sessions", cfg.UsesRedisSessions()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
