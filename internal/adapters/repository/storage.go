package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/afero"

	"github.com/savingsboard/core/internal/infrastructure/config"
	"github.com/savingsboard/core/internal/infrastructure/database"
	"github.com/savingsboard/core/internal/ports"
)

// Storage bundles the configured key-value store with the connection that
// backs it, so callers can close and health-check it as one unit
type Storage struct {
	Store  ports.KeyValueStore
	Driver string

	db    *database.DB
	redis *redis.Client
}

// Open builds the key-value store selected by cfg.Storage.Driver. SQL
// backends get their schema migrated on open.
func Open(ctx context.Context, cfg *config.Config) (*Storage, error) {
	s := &Storage{Driver: cfg.Storage.Driver}

	switch cfg.Storage.Driver {
	case config.DriverFile:
		store, err := NewFileStore(afero.NewOsFs(), cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		s.Store = store

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.New(cfg.Storage.Driver, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		s.db = db
		s.Store = NewSQLStore(db.DB)

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
		}
		s.redis = client
		s.Store = NewRedisStore(client)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return s, nil
}

// HealthCheck pings the backing connection, if any
func (s *Storage) HealthCheck(ctx context.Context) error {
	switch {
	case s.db != nil:
		return s.db.HealthCheck(ctx)
	case s.redis != nil:
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}

// Info returns driver details for the detailed health endpoint
func (s *Storage) Info() map[string]interface{} {
	if s.db != nil {
		return s.db.GetConnectionInfo()
	}
	return map[string]interface{}{"driver": s.Driver}
}

// Close releases the store and its connection, attempting both even when
// the first fails
func (s *Storage) Close() error {
	var errs []error
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
