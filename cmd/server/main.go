package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/crocodile/internal/catalog"
	"github.com/playperu/crocodile/internal/config"
	"github.com/playperu/crocodile/internal/database"
	"github.com/playperu/crocodile/internal/game"
	"github.com/playperu/crocodile/internal/handler/health"
	"github.com/playperu/crocodile/internal/migrations"
	"github.com/playperu/crocodile/internal/server"
	"github.com/playperu/crocodile/internal/store"
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

	// --- Store ---
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// --- Catalog ---
	loadCatalog := func() (*catalog.Catalog, error) {
		return catalog.LoadCatalog(logger, cfg.DataFile, cfg.LangDir)
	}
	cat, err := loadCatalog()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	// --- Engine ---
	broker := server.NewBroker(logger)
	engine, err := game.New(ctx, st, cat,
		game.WithLogger(logger),
		game.WithNotifier(broker),
		game.WithCatalogLoader(loadCatalog),
		game.WithSettings(game.Settings{
			GameLength:        cfg.GameLength,
			RestrictionTime:   cfg.RestrictionTime,
			ReactionRetention: cfg.ReactionRetention,
			FilterByDefault:   cfg.FilterSymbolsByDefault,
			AdminIDs:          cfg.AdminIDs,
		}),
	)
	if err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine: engine,
		Broker: broker,
		Checks: map[string]health.Checker{
			"store":   health.CheckFunc(st.Ping),
			"catalog": catalogChecker{engine},
		},
		AdminTokenHash: cfg.AdminTokenHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return sweep(gctx, engine, cfg.SweepInterval)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	opts := []store.Option{
		store.WithLogger(logger),
		store.WithDefaultFilter(cfg.FilterSymbolsByDefault),
	}

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database dir: %w", err)
		}
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)
		return store.NewDocStore(db, opts...), nil
	default:
		logger.Info("using file store", "path", cfg.UsersFile)
		return store.NewFileStore(cfg.UsersFile, opts...), nil
	}
}

// sweep periodically drops expired rounds, cooldowns and old vote tallies.
func sweep(ctx context.Context, engine *game.Engine, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			engine.Sweep(now)
		}
	}
}

// catalogChecker fails when no language is loaded.
type catalogChecker struct{ engine *game.Engine }

func (c catalogChecker) Check(_ context.Context) error {
	if len(c.engine.Languages()) == 0 {
		return errors.New("no languages loaded")
	}
	return nil
}
