package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/treasurehunt/internal/config"
	"github.com/playperu/treasurehunt/internal/database"
	"github.com/playperu/treasurehunt/internal/handler/health"
	"github.com/playperu/treasurehunt/internal/hunt"
	"github.com/playperu/treasurehunt/internal/migrations"
	"github.com/playperu/treasurehunt/internal/registry"
	"github.com/playperu/treasurehunt/internal/server"
	"github.com/playperu/treasurehunt/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Clues ---
	catalog, err := hunt.ReadCatalog(cfg.CluesPath)
	if err != nil {
		return err
	}
	logger.Info("loaded clues", "path", cfg.CluesPath, "clues", len(catalog), "locations", len(catalog.Locations()))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	sessions := store.New(db)
	saved, err := sessions.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading saved sessions: %w", err)
	}
	writer := store.NewWriter(sessions, logger)

	// --- Registry ---
	broker := server.NewBroker()
	reg, err := registry.New(registry.Config{
		Catalog:          catalog,
		ArrangementCount: cfg.ArrangementCount,
		ChannelSize:      cfg.StateChannelSize,
		Cooldowns: registry.Cooldowns{
			Hint:   cfg.MinHintWait,
			Reveal: cfg.MinRevealWait,
			Skip:   cfg.MinSkipWait,
		},
		Persister: writer,
		Listener:  broker,
		Logger:    logger,
		Restore:   saved,
	})
	if err != nil {
		return fmt.Errorf("starting registry: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Hunt:      reg,
		Broker:    broker,
		Metrics:   server.NewMetrics(broker),
		PublicURL: cfg.PublicURL,
		StaticDir: cfg.StaticDir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			"sqlite":   database.Checker{DB: db},
			"registry": reg,
		}).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	// The writer outlives the registry so the last snapshot is saved.
	writerCtx, stopWriter := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWriter()

	g.Go(func() error {
		return writer.Run(writerCtx)
	})

	g.Go(func() error {
		defer stopWriter()
		logger.Info("starting registry", "sessions", len(saved))
		return reg.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
