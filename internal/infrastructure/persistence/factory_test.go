package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/transcripts/config"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/pkg/logger"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Storage.Backend = backend
	cfg.Storage.ConnectMaxAttempts = 1
	return cfg
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	h, err := Open(ctx, testConfig(t, config.BackendMemory), logger.Nop())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, config.BackendMemory, h.Name)
	assert.NoError(t, h.Ping(ctx))

	store := transcript.NewStore(h.Backend)
	id, err := store.AddStudent(ctx, "Carol")
	require.NoError(t, err)
	_, err = store.GetTranscript(ctx, id)
	assert.NoError(t, err)
}

func TestOpen_Bolt(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendBolt)
	cfg.Bolt.Path = filepath.Join(t.TempDir(), "t.db")

	h, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, config.BackendBolt, h.Name)
	assert.NoError(t, h.Ping(ctx))
	assert.NoError(t, h.Close())
	assert.FileExists(t, cfg.Bolt.Path)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, "cassandra"), logger.Nop())
	assert.ErrorContains(t, err, `unknown backend "cassandra"`)
}

func TestOpen_PostgresWithoutURL(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, config.BackendPostgres), logger.Nop())
	assert.ErrorContains(t, err, "database URL is required")
}

func TestOpen_RedisInvalidURL(t *testing.T) {
	cfg := testConfig(t, config.BackendRedis)
	cfg.Redis.URL = "http://not-redis"

	_, err := Open(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestConfigMapping(t *testing.T) {
	rc := RedisConfig(config.RedisConfig{Host: "cache", Port: 6380, KeyTTL: time.Hour})
	assert.Equal(t, "cache:6380", rc.Addr())
	assert.Equal(t, time.Hour, rc.KeyTTL)

	pc := PostgresConfig(config.DatabaseConfig{URL: "postgres://x", MaxConns: 3})
	assert.Equal(t, int32(3), pc.MaxConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)

	bc := BoltConfig(config.BoltConfig{Path: "a.db", OpenTimeout: time.Second})
	assert.Equal(t, "a.db", bc.Path)
}

func TestGuard(t *testing.T) {
	cfg := testConfig(t, config.BackendPostgres)
	inner := &flakyBackend{}

	_, ok := guard(cfg, logger.Nop(), "postgres", inner).(*GuardedBackend)
	assert.True(t, ok)

	cfg.Storage.BreakerFailureThreshold = 0
	assert.Same(t, inner, guard(cfg, logger.Nop(), "postgres", inner))
}
