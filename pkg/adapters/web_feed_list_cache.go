package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const webFeedListTag = "web-feed-lists"

type cachedWebFeed struct {
	ExternalID   string   `json:"externalID"`
	URL          string   `json:"url"`
	EditedName   *string  `json:"editedName,omitempty"`
	ContainerIDs []string `json:"containerIDs"`
}

// WebFeedListCache keeps the feed list of each container. All entries share
// one tag so a single invalidation drops every list.
type WebFeedListCache struct {
	cache *cache.Cache[any]

	// guards generation and orders Put against Invalidate
	lock       sync.Mutex
	generation uint64
}

func NewWebFeedListCache(c *cache.Cache[any]) *WebFeedListCache {
	return &WebFeedListCache{cache: c}
}

func (w *WebFeedListCache) Get(ctx context.Context, containerID string) ([]feed.WebFeed, bool) {
	value, err := w.cache.Get(ctx, w.key(containerID))
	if err != nil {
		log.Printf("[DEBUG] entry not found in cache: %v", err)
		metrics.CacheMiss.Inc()
		return nil, false
	}

	var encoded []byte
	switch v := value.(type) {
	case []byte:
		encoded = v
	case string:
		encoded = []byte(v)
	default:
		metrics.CacheMiss.Inc()
		return nil, false
	}

	var entries []cachedWebFeed
	if err := json.Unmarshal(encoded, &entries); err != nil {
		log.Printf("[ERROR] failure to parse cache stored web feed list: %v", err)
		metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_PARSE"}).Inc()
		return nil, false
	}

	webFeeds := make([]feed.WebFeed, 0, len(entries))
	for _, entry := range entries {
		address, err := feed.NewAddress(entry.URL)
		if err != nil {
			metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_PARSE"}).Inc()
			return nil, false
		}
		webFeeds = append(webFeeds, feed.NewWebFeed(entry.ExternalID, address, entry.EditedName, entry.ContainerIDs))
	}

	metrics.CacheHits.Inc()
	return webFeeds, true
}

func (w *WebFeedListCache) Generation() uint64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.generation
}

// Put stores the list unless the cache was invalidated after generation was
// read, in which case the list may predate a write and is dropped.
func (w *WebFeedListCache) Put(ctx context.Context, containerID string, generation uint64, webFeeds []feed.WebFeed) error {
	entries := make([]cachedWebFeed, 0, len(webFeeds))
	for _, webFeed := range webFeeds {
		externalID, _ := webFeed.ExternalID()
		entries = append(entries, cachedWebFeed{
			ExternalID:   externalID,
			URL:          webFeed.Address().String(),
			EditedName:   webFeed.EditedName(),
			ContainerIDs: webFeed.ContainerIDs(),
		})
	}

	encoded, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "error encoding web feed list")
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if generation != w.generation {
		log.Printf("[DEBUG] dropping web feed list of %s read before the last invalidation", containerID)
		return nil
	}

	if err := w.cache.Set(ctx, w.key(containerID), encoded, store.WithTags([]string{webFeedListTag})); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_SET"}).Inc()
		return errors.Wrap(err, "error storing web feed list")
	}
	return nil
}

func (w *WebFeedListCache) Invalidate(ctx context.Context) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.generation++
	if err := w.cache.Invalidate(ctx, store.WithInvalidateTags([]string{webFeedListTag})); err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "CACHE_INVALIDATE"}).Inc()
		return errors.Wrap(err, "error invalidating web feed lists")
	}
	return nil
}

func (w *WebFeedListCache) key(containerID string) string {
	return fmt.Sprintf("web-feeds:%s", containerID)
}
