package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/parcelworks/bylaw/config"
	"github.com/parcelworks/bylaw/provision"
	"github.com/parcelworks/bylaw/server"
	"github.com/parcelworks/bylaw/worker"
	"github.com/parcelworks/bylaw/zoning"
	"github.com/parcelworks/bylaw/zoning/registry"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation HTTP API (and NATS worker, if configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	logger := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := registry.Load()
	if err != nil {
		return fmt.Errorf("load zone registry: %w", err)
	}
	ev := &zoning.Evaluator{Registry: reg}

	// Special provision overrides, optionally hot-reloaded.
	if cfg.Provisions.Path != "" {
		set, err := provision.LoadFile(cfg.Provisions.Path)
		if err != nil {
			return fmt.Errorf("load provisions: %w", err)
		}
		ev.Overrides = set
		logger.Info("special provisions loaded",
			"path", cfg.Provisions.Path,
			"count", set.Len())

		if cfg.Provisions.Watch {
			w, err := provision.NewWatcher(provision.WatcherConfig{
				Path:   cfg.Provisions.Path,
				Logger: logger,
			}, set)
			if err != nil {
				return fmt.Errorf("create provision watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start provision watcher: %w", err)
			}
			defer w.Stop()
		}
	}

	// Optional Redis result cache.
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Degrade to uncached; the engine does not need Redis.
			logger.Warn("redis unreachable, running without result cache",
				"addr", cfg.Cache.Addr,
				"error", err)
			redisClient = nil
		}
		if redisClient != nil {
			defer redisClient.Close()
		}
	}

	// Optional NATS evaluation worker.
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name(appName),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second))
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer nc.Close()

		w := worker.New(nc, ev, worker.Config{
			Subject: cfg.NATS.Subject,
			Queue:   cfg.NATS.Queue,
			Logger:  logger,
		})
		if err := w.Start(); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
	}

	srv := server.New(ev, server.Options{
		Redis:    redisClient,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	mux := http.NewServeMux()
	srv.RegisterHTTPHandlers(mux)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			"addr", cfg.Server.Addr,
			"zones", reg.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
