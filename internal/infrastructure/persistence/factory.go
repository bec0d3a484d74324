// Package persistence selects and opens the configured transcript backend.
package persistence

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alem-hub/transcripts/config"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/bolt"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/transcripts/pkg/circuitbreaker"
	"github.com/alem-hub/transcripts/pkg/logger"
	"github.com/alem-hub/transcripts/pkg/retry"
)

// HealthCheck reports whether the backend is reachable.
type HealthCheck func(ctx context.Context) error

// Handle is an opened backend together with its lifecycle hooks.
type Handle struct {
	Name    string
	Backend transcript.Backend
	Ping    HealthCheck

	closer io.Closer
}

// Close releases the backend's connections or files.
func (h *Handle) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

// Open builds the backend named by cfg.Storage.Backend. Network backends are
// dialed with retries; postgres migrations are applied before returning.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Handle, error) {
	log = log.With(logger.Component("persistence"), logger.Backend(cfg.Storage.Backend))

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b := memory.NewBackend()
		return &Handle{Name: config.BackendMemory, Backend: b, Ping: b.Ping, closer: b}, nil

	case config.BackendBolt:
		b, err := bolt.Open(BoltConfig(cfg.Bolt))
		if err != nil {
			return nil, err
		}
		log.Info("bolt database opened", logger.String("path", b.Path()))
		return &Handle{Name: config.BackendBolt, Backend: b, Ping: b.Ping, closer: b}, nil

	case config.BackendRedis:
		return openRedis(ctx, cfg, log)

	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)

	default:
		return nil, fmt.Errorf("persistence: unknown backend %q", cfg.Storage.Backend)
	}
}

func openRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Handle, error) {
	rcfg := RedisConfig(cfg.Redis)
	if _, err := rcfg.Options(); err != nil {
		return nil, err
	}

	b, err := retry.DoWithData(ctx, func(ctx context.Context) (*redis.Backend, error) {
		return redis.Connect(ctx, rcfg)
	}, connectOptions(cfg, log)...)
	if err != nil {
		return nil, fmt.Errorf("persistence: connect to redis: %w", err)
	}

	log.Info("connected to redis", logger.String("addr", rcfg.Addr()))
	return &Handle{
		Name:    config.BackendRedis,
		Backend: guard(cfg, log, config.BackendRedis, b),
		Ping:    b.Ping,
		closer:  b,
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Handle, error) {
	pcfg := PostgresConfig(cfg.Database)
	if _, err := pcfg.PoolConfig(); err != nil {
		return nil, err
	}

	conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
		return postgres.NewConnection(ctx, pcfg)
	}, connectOptions(cfg, log)...)
	if err != nil {
		return nil, fmt.Errorf("persistence: connect to postgres: %w", err)
	}

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Info("connected to postgres, migrations applied")
	return &Handle{
		Name:    config.BackendPostgres,
		Backend: guard(cfg, log, config.BackendPostgres, postgres.NewTranscriptRepository(conn)),
		Ping:    conn.Ping,
		closer:  conn,
	}, nil
}

func connectOptions(cfg *config.Config, log *logger.Logger) []retry.Option {
	return append(retry.ConnectOptions(cfg.Storage.ConnectMaxAttempts),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("backend not reachable, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)
}

// guard wraps a network backend in a circuit breaker unless disabled.
func guard(cfg *config.Config, log *logger.Logger, name string, b transcript.Backend) transcript.Backend {
	if cfg.Storage.BreakerFailureThreshold <= 0 {
		return b
	}

	cb := circuitbreaker.New(name,
		circuitbreaker.WithFailureThreshold(cfg.Storage.BreakerFailureThreshold),
		circuitbreaker.WithTimeout(cfg.Storage.BreakerOpenTimeout),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("backend circuit state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)
	return NewGuardedBackend(b, cb)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIG MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// RedisConfig maps env settings onto the redis backend config.
func RedisConfig(c config.RedisConfig) redis.Config {
	rc := redis.DefaultConfig()
	rc.URL = c.URL
	rc.Host = c.Host
	rc.Port = c.Port
	rc.Password = c.Password
	rc.DB = c.DB
	rc.PoolSize = c.PoolSize
	rc.DialTimeout = c.DialTimeout
	rc.ReadTimeout = c.ReadTimeout
	rc.WriteTimeout = c.WriteTimeout
	rc.KeyTTL = c.KeyTTL
	return rc
}

// PostgresConfig maps env settings onto the postgres backend config.
func PostgresConfig(c config.DatabaseConfig) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.URL = c.URL
	pc.MaxConns = c.MaxConns
	pc.MinConns = c.MinConns
	pc.ConnectTimeout = c.ConnectTimeout
	return pc
}

// BoltConfig maps env settings onto the bolt backend config.
func BoltConfig(c config.BoltConfig) bolt.Config {
	return bolt.Config{Path: c.Path, OpenTimeout: c.OpenTimeout}
}
