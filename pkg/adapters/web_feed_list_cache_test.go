package adapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/custom_cache"
	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestWebFeedListCache(t *testing.T, backend string) *adapters.WebFeedListCache {
	t.Helper()

	var redisClient *redis.Client
	if backend == custom_cache.BackendRedis {
		redisClient = newTestRedisClient(t)
	}

	c, err := custom_cache.New(custom_cache.Config{Backend: backend, Expiration: time.Minute}, redisClient)
	require.NoError(t, err)
	return adapters.NewWebFeedListCache(c)
}

func TestWebFeedListCache(t *testing.T) {
	for _, backend := range []string{custom_cache.BackendBigcache, custom_cache.BackendRedis} {
		backend := backend
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			listCache := newTestWebFeedListCache(t, backend)

			_, ok := listCache.Get(ctx, "folder-1")
			require.False(t, ok)

			address, err := feed.NewAddress("https://feeds.example/rss")
			require.NoError(t, err)
			name := "Example"
			webFeeds := []feed.WebFeed{
				feed.NewWebFeed("feed-1", address, &name, []string{"folder-1", "account"}),
				feed.NewWebFeed("feed-2", address, nil, []string{"folder-1"}),
			}

			require.NoError(t, listCache.Put(ctx, "folder-1", listCache.Generation(), webFeeds))

			cached, ok := listCache.Get(ctx, "folder-1")
			require.True(t, ok)
			require.Equal(t, webFeeds, cached)

			require.NoError(t, listCache.Invalidate(ctx))

			_, ok = listCache.Get(ctx, "folder-1")
			require.False(t, ok)
		})
	}
}

func TestWebFeedListCacheDropsListsReadBeforeInvalidation(t *testing.T) {
	ctx := context.Background()
	listCache := newTestWebFeedListCache(t, custom_cache.BackendBigcache)

	address, err := feed.NewAddress("https://feeds.example/rss")
	require.NoError(t, err)
	webFeeds := []feed.WebFeed{feed.NewWebFeed("feed-1", address, nil, []string{"folder-1"})}

	generation := listCache.Generation()
	require.NoError(t, listCache.Invalidate(ctx))
	require.NotEqual(t, generation, listCache.Generation())

	require.NoError(t, listCache.Put(ctx, "folder-1", generation, webFeeds))
	_, ok := listCache.Get(ctx, "folder-1")
	require.False(t, ok)

	require.NoError(t, listCache.Put(ctx, "folder-1", listCache.Generation(), webFeeds))
	_, ok = listCache.Get(ctx, "folder-1")
	require.True(t, ok)
}

func TestCustomCacheRejectsUnknownBackend(t *testing.T) {
	_, err := custom_cache.New(custom_cache.Config{Backend: "memcached"}, nil)
	require.Error(t, err)
}

func TestCustomCacheRedisRequiresClient(t *testing.T) {
	_, err := custom_cache.New(custom_cache.Config{Backend: custom_cache.BackendRedis}, nil)
	require.Error(t, err)
}
