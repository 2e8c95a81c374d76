package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v8"

	"luggagetracker/internal/logging"
	"luggagetracker/internal/luggage"
	"luggagetracker/internal/slot"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger logging.Logger) error {
	ctx := context.Background()

	s, closeSlot, err := openSlot(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSlot(); err != nil {
			logger.Warn(ctx, "closing storage", "err", err)
		}
	}()

	repo := luggage.NewRepository(s, luggage.WithLogger(logger.With("component", "repository")))
	handler := NewHandler(repo, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      loggingMiddleware(logger)(handler.Routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server is listening", "addr", server.Addr, "backend", cfg.Backend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("could not listen: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	logger.Info(ctx, "server is shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	st := repo.Stats()
	logger.Info(ctx, "server stopped", "reads", st.Reads, "writes", st.Writes, "corrupt_reads", st.CorruptReads)
	return nil
}

// openSlot connects the configured backend and returns the items slot with
// a func releasing its resources.
func openSlot(ctx context.Context, cfg *Config) (slot.Slot, func() error, error) {
	switch cfg.Backend {
	case backendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("could not connect to redis (%s): %w", cfg.RedisAddr, err)
		}
		return slot.NewRedis(client, slot.DefaultKey), client.Close, nil
	case backendSQLite:
		db, err := slot.OpenSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return slot.NewSQLite(db, slot.DefaultKey), db.Close, nil
	default:
		return slot.NewMemory(slot.DefaultKey), func() error { return nil }, nil
	}
}
