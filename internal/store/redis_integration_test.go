//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dvalfre/urlshortener/internal/shortener"
	"github.com/dvalfre/urlshortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}

	return "localhost:6379"
}

func TestRedisStoreIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	s := store.NewRedisStore(client)

	t.Run("save and find by key", func(t *testing.T) {
		link := newLink("rtest001", "https://example.com/redis")

		_, err := s.Save(ctx, link)
		require.NoError(t, err)

		found, err := s.FindByKey(ctx, "rtest001")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/redis", found.Redirection.Target)
	})

	t.Run("find of an absent key returns ErrNotFound", func(t *testing.T) {
		_, err := s.FindByKey(ctx, "rtestnone")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

func TestRedisCacheRepositoryIntegration(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	underlying := store.NewMemoryStore()
	cached := store.NewRedisCacheRepository(underlying, client, time.Minute)

	t.Run("reads populate the cache", func(t *testing.T) {
		link := newLink("ctest001", "https://example.com/cached")

		_, err := cached.Save(ctx, link)
		require.NoError(t, err)

		found, err := cached.FindByKey(ctx, "ctest001")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/cached", found.Redirection.Target)
	})
}
