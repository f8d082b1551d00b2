package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/leaderboard/internal/config"
	"github.com/mcoot/leaderboard/internal/dependencies/clock"
	"github.com/mcoot/leaderboard/internal/metrics"
	"github.com/mcoot/leaderboard/internal/services/directory"
	"github.com/mcoot/leaderboard/internal/services/ledger"
	"github.com/mcoot/leaderboard/internal/storage"
	"github.com/mcoot/leaderboard/internal/storage/memory"
	"github.com/mcoot/leaderboard/internal/storage/postgres"
	redisstorage "github.com/mcoot/leaderboard/internal/storage/redis"
	"github.com/mcoot/leaderboard/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Directory *directory.Service
	Ledger    *ledger.Service

	Metrics *metrics.Metrics
}

// Close releases the storage backend if it holds connections
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	// Use no-op logger if not provided
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("storage ready", slog.String("backend", cfg.Storage))

	return newWithDependencies(store, clock.New(), metrics.New(), logger), nil
}

func openStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	switch cfg.Storage {
	case "", config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store, nil
	case config.StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		return store, nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			redisCfg.KeyPrefix = cfg.RedisPrefix
		}
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid storage %q: must be one of memory, sqlite, postgres, redis", cfg.Storage)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) *App {
	directoryService := directory.New(store, clk, logger)
	ledgerService := ledger.New(store, directoryService, clk, logger)

	return &App{
		Storage:   store,
		Clock:     clk,
		Directory: directoryService,
		Ledger:    ledgerService,
		Metrics:   m,
	}
}
