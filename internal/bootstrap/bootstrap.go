// Package bootstrap wires configuration into concrete storage, cache, and
// lock backends. It is shared by the server and the admin CLI so both open
// the stores the same way.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/alexander-iam/internal/cache/memory"
	rediscache "github.com/prn-tf/alexander-iam/internal/cache/redis"
	"github.com/prn-tf/alexander-iam/internal/config"
	"github.com/prn-tf/alexander-iam/internal/lock"
	"github.com/prn-tf/alexander-iam/internal/repository"
	"github.com/prn-tf/alexander-iam/internal/repository/postgres"
	"github.com/prn-tf/alexander-iam/internal/repository/sqlite"
)

// Store bundles the opened user repository with its backing database.
type Store struct {
	Users  repository.UserRepository
	Cache  repository.Cache
	Locker lock.Locker

	health  func(ctx context.Context) error
	closers []func() error
}

// Health pings the backing database.
func (s *Store) Health(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health(ctx)
}

// Close releases all backend connections.
func (s *Store) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open connects to the configured database, runs migrations, and sets up
// the cache and locker. With Redis enabled the cache and lock are shared
// across instances; otherwise in-process implementations are used.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Store, error) {
	store := &Store{}

	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, sqlite.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			JournalMode:     cfg.Database.JournalMode,
			BusyTimeout:     cfg.Database.BusyTimeout,
			SynchronousMode: cfg.Database.SynchronousMode,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		store.Users = sqlite.NewUserRepository(db)
		store.health = db.Health
		store.closers = append(store.closers, db.Close)

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate postgres database: %w", err)
		}
		store.Users = postgres.NewUserRepository(db)
		store.health = db.Health
		store.closers = append(store.closers, func() error {
			db.Close()
			return nil
		})

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		cache, err := rediscache.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		store.Cache = cache
		store.Locker = lock.NewRedisLocker(rediscache.NewLock(cache))
		store.closers = append(store.closers, cache.Close)
	} else {
		cache := memory.NewCache()
		store.Cache = cache
		store.Locker = lock.NewMemoryLocker()
		store.closers = append(store.closers, func() error {
			cache.Stop()
			return nil
		})
	}

	return store, nil
}
