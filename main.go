package main

import (
	"context"
	"errors"
	"fmt"
	"modfy_server/api"
	"modfy_server/config"
	"modfy_server/database"
	"modfy_server/services"
	"modfy_server/storage"
	"modfy_server/structs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and config
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}
}

func main() {
	ctx := context.Background()

	store, err := openStorage(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize storage", gecho.Field("error", err))
	}

	cache := openCache(ctx)
	sessions, err := openSessionStore(cache)
	if err != nil {
		logger.Fatal("Failed to initialize session store", gecho.Field("error", err))
	}

	sm := services.NewServiceManager(logger, cfg, store, cache, sessions)

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(cfg, sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	done := setupGracefulShutdown(srv, sm, store)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port),
		gecho.Field("storage", cfg.Storage.Driver),
		gecho.Field("sessions", cfg.Auth.SessionStore))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", gecho.Field("error", err))
	}
	<-done
}

// openStorage selects the storage backend from STORAGE_DRIVER and seeds it when asked.
func openStorage(ctx context.Context) (storage.Storage, error) {
	var store storage.Storage

	switch cfg.Storage.Driver {
	case "memory":
		store = storage.NewMemStorage()
	case "database":
		db, err := database.Connect(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		store = storage.NewDBStorage(db)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Seed {
		if err := storage.Seed(ctx, store); err != nil {
			return nil, fmt.Errorf("failed to seed storage: %w", err)
		}
		logger.Info("Storage seeded with the demo catalog")
	}
	return store, nil
}

// openCache returns nil when redis is unreachable, which disables caching and rate limiting.
func openCache(ctx context.Context) *services.CacheService {
	if cfg.Cache.Address == "" {
		return nil
	}

	cache := services.NewCacheService(logger, cfg.Cache)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := cache.Ping(pingCtx); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", gecho.Field("error", err), gecho.Field("address", cfg.Cache.Address))
		_ = cache.Close()
		return nil
	}
	return cache
}

func openSessionStore(cache *services.CacheService) (services.SessionStore, error) {
	switch cfg.Auth.SessionStore {
	case "memory":
		return services.NewMemorySessionStore(), nil
	case "redis":
		if cache == nil {
			return nil, errors.New("SESSION_STORE=redis requires a reachable redis")
		}
		return services.NewRedisSessionStore(cache), nil
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Auth.SessionStore)
	}
}

// setupGracefulShutdown drains the server on SIGINT/SIGTERM. The returned channel closes once
// everything is released.
func setupGracefulShutdown(srv *http.Server, sm *services.ServiceManager, store storage.Storage) <-chan struct{} {
	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	logger.Info("Graceful shutdown handler initialized")

	go func() {
		defer close(done)
		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", gecho.Field("error", err))
		}

		sm.EmailService.Wait()

		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", gecho.Field("error", err))
		}
		if sm.CacheService != nil {
			if err := sm.CacheService.Close(); err != nil {
				logger.Error("Failed to close cache", gecho.Field("error", err))
			}
		}
		logger.Info("Shutdown complete")
	}()

	return done
}
