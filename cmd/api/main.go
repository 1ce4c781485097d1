package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/guining-hotel/data"
	"github.com/jwebster45206/guining-hotel/internal/config"
	"github.com/jwebster45206/guining-hotel/internal/handlers"
	"github.com/jwebster45206/guining-hotel/internal/logger"
	"github.com/jwebster45206/guining-hotel/internal/middleware"
	savestore "github.com/jwebster45206/guining-hotel/internal/storage"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/game"
	"github.com/jwebster45206/guining-hotel/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Guining Hotel API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend)

	var content fs.FS = data.FS
	if cfg.DataDir != "" {
		content = os.DirFS(cfg.DataDir)
		log.Info("Loading catalog from directory", "dir", cfg.DataDir)
	}
	cat, err := catalog.Load(content)
	if err != nil {
		log.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("Catalog loaded", "clues", len(cat.Clues), "rooms", len(cat.Rooms), "characters", len(cat.Truths))

	store, err := openStore(cfg, log)
	if err != nil {
		log.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	svc, err := game.NewService(cat, store, log)
	if err != nil {
		log.Error("Failed to initialize game service", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	catalogHandler := handlers.NewCatalogHandler(cat, log)
	mux.Handle("/v1/catalog", catalogHandler)

	sessionHandler := handlers.NewSessionHandler(svc, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Chain(log).Then(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}

// openStore connects the configured save backend.
func openStore(cfg *config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		rs, err := savestore.NewRedisStorage(cfg.RedisURL, cfg.SaveTTL, log)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := rs.WaitForConnection(ctx); err != nil {
			_ = rs.Close()
			return nil, err
		}
		return rs, nil
	case config.BackendSQLite:
		ss, err := savestore.OpenSQLiteStorage(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		return ss, nil
	case config.BackendMemory:
		log.Warn("Using in-memory storage; saves are lost on restart")
		return storage.NewMockStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
