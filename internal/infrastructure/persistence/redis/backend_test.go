package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/transcripts/internal/domain/transcript"
)

func TestConfig_OptionsFromHostPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "cache.internal"
	cfg.Port = 6380
	cfg.DB = 2
	cfg.PoolSize = 7

	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
}

func TestConfig_URLTakesPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "redis://:secret@redis.example:6390/4"

	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, "redis.example:6390", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 4, opts.DB)
}

func TestConfig_InvalidURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "http://not-redis"

	_, err := cfg.Options()
	assert.Error(t, err)
}

func TestTranscriptKey(t *testing.T) {
	assert.Equal(t, "transcript:abc", TranscriptKey("abc"))
}

func TestBackend_EmptyIDIsNotFound(t *testing.T) {
	// Nothing listens on port 1: the empty ID must resolve without a round trip.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := transcript.NewStore(NewBackend(client, 0))
	ctx := context.Background()

	_, err := store.GetTranscript(ctx, "")
	assert.True(t, transcript.IsNotFound(err), "got %v", err)

	err = store.AddGrade(ctx, "", "Math", 91)
	assert.True(t, transcript.IsNotFound(err), "got %v", err)
}

func TestBackend_SetRejectsEmptyKey(t *testing.T) {
	b := NewBackend(nil, 0)

	assert.ErrorIs(t, b.Set(context.Background(), "", []byte("x")), ErrKeyEmpty)
}

// Runs only when REDIS_TEST_URL points at a disposable Redis instance.
func TestBackend_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	cfg := DefaultConfig()
	cfg.URL = url
	cfg.KeyTTL = time.Minute

	ctx := context.Background()
	b, err := Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	opts, err := cfg.Options()
	require.NoError(t, err)
	inspect := redis.NewClient(opts)
	t.Cleanup(func() { _ = inspect.Close() })

	key := uuid.NewString()
	t.Cleanup(func() { _ = inspect.Del(context.Background(), TranscriptKey(key)).Err() })

	_, found, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(ctx, key, []byte(`{"v":1}`)))

	value, found, err := b.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"v":1}`, string(value))

	ttl, err := inspect.TTL(ctx, TranscriptKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
