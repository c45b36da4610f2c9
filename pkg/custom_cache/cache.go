package custom_cache

import (
	"log"
	"time"

	"github.com/allegro/bigcache"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	bigcache_store "github.com/eko/gocache/store/bigcache/v4"
	redis_store "github.com/eko/gocache/store/redis/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	BackendBigcache = "bigcache"
	BackendRedis    = "redis"
)

type Config struct {
	Backend    string
	Expiration time.Duration
}

// New builds the cache used for read snapshots. The redis backend shares the
// given client; the bigcache backend keeps entries in process.
func New(config Config, redisClient *redis.Client) (*cache.Cache[any], error) {
	switch config.Backend {
	case BackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis cache backend requires a redis client")
		}
		redisStore := redis_store.NewRedis(redisClient, store.WithExpiration(config.Expiration))
		log.Printf("[INFO] using redis cache backend")
		return cache.New[any](redisStore), nil
	case BackendBigcache, "":
		bigcacheClient, err := bigcache.NewBigCache(bigcache.DefaultConfig(config.Expiration))
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize bigcache")
		}
		bigcacheStore := bigcache_store.NewBigcache(bigcacheClient)
		log.Printf("[INFO] using bigcache cache backend")
		return cache.New[any](bigcacheStore), nil
	default:
		return nil, errors.Errorf("unknown cache backend '%s'", config.Backend)
	}
}
