package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client
}

func TestMemoryStateStore_ReadOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStateStore(5 * time.Minute)

	require.NoError(t, s.Set(ctx, "st-1", "verifier-1"))

	v, err := s.Consume(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "verifier-1", v)

	_, err = s.Consume(ctx, "st-1")
	assert.ErrorIs(t, err, usecases.ErrStateNotFound)

	_, err = s.Consume(ctx, "never-set")
	assert.ErrorIs(t, err, usecases.ErrStateNotFound)
}

func TestMemoryStateStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStateStore(5 * time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "old", "v-old"))
	now = now.Add(5 * time.Minute)

	_, err := s.Consume(ctx, "old")
	assert.ErrorIs(t, err, usecases.ErrStateNotFound)

	require.NoError(t, s.Set(ctx, "a", "v-a"))
	now = now.Add(6 * time.Minute)
	require.NoError(t, s.Set(ctx, "b", "v-b"))
	assert.Equal(t, 1, s.Len(), "expired entries are swept on Set")
}

func TestMemoryStateStore_RejectsEmpty(t *testing.T) {
	s := NewMemoryStateStore(time.Minute)
	assert.Error(t, s.Set(context.Background(), "", "v"))
	assert.Error(t, s.Set(context.Background(), "st", ""))
}

func TestMemoryStateStore_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStateStore(time.Minute)
	require.NoError(t, s.Set(ctx, "race", "v"))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Consume(ctx, "race"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestRedisStateStore_ReadOnce(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	s := NewRedisStateStore(client, "", time.Minute)

	require.NoError(t, s.Set(ctx, "st-1", "verifier-1"))

	ttl, err := client.TTL(ctx, DefaultStatePrefix+"st-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	v, err := s.Consume(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "verifier-1", v)

	_, err = s.Consume(ctx, "st-1")
	assert.ErrorIs(t, err, usecases.ErrStateNotFound)
}
