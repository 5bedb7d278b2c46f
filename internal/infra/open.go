// Package infra wires the configured record store and its optional cache.
package infra

import (
	"context"
	"fmt"
	"log/slog"

	"job-board/internal/config"
	"job-board/internal/domain"
	"job-board/internal/infra/cache"
	"job-board/internal/infra/etcd"
	"job-board/internal/infra/memory"
	"job-board/internal/infra/postgres"
	"job-board/internal/infra/sqlite"
)

// OpenJobRepository opens the store selected by cfg.Store.Driver and, when a
// Redis address is configured, wraps it in the posting cache. Closing the
// returned repository releases every connection it holds.
func OpenJobRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.JobRepository, error) {
	repo, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Job store opened", "driver", cfg.Store.Driver)

	if cfg.Cache.RedisAddr == "" {
		return repo, nil
	}
	client, err := cache.NewClient(ctx, cache.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.RedisAddr, err)
	}
	logger.Info("Redis posting cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL)
	return cache.NewCachedJobRepository(repo, client, cfg.Cache.TTL, logger), nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (domain.JobRepository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewMemoryJobRepository(logger), nil

	case config.DriverSqlite:
		db, err := sqlite.Open(ctx, cfg.SqlitePath, logger)
		if err != nil {
			return nil, err
		}
		return sqlite.NewSqliteJobRepository(db, logger), nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, logger)
		if err != nil {
			return nil, err
		}
		return postgres.NewPostgresJobRepository(pool, logger), nil

	case config.DriverEtcd:
		client, err := etcd.NewClient(cfg.EtcdEndpoints, cfg.EtcdTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create etcd client: %w", err)
		}
		return etcd.NewEtcdJobRepository(client, logger), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}
