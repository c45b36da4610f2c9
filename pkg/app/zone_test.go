package app_test

import (
	"context"
	"sync"

	"github.com/piraces/feedzone/pkg/adapters"
	"github.com/piraces/feedzone/pkg/domain/feed"
	"github.com/piraces/feedzone/pkg/domain/zone"
)

// countingZone wraps an in-memory zone, counting the remote calls made
// through it and failing the operations listed in failures.
type countingZone struct {
	zone *adapters.MemoryZone

	lock     sync.Mutex
	calls    map[string]int
	failures map[string]error
}

func newCountingZone() *countingZone {
	return &countingZone{
		zone:     adapters.NewMemoryZone(),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

func (c *countingZone) Save(ctx context.Context, record zone.Record) (zone.Record, error) {
	if err := c.record("save"); err != nil {
		return zone.Record{}, err
	}
	return c.zone.Save(ctx, record)
}

func (c *countingZone) Fetch(ctx context.Context, externalID string) (zone.Record, error) {
	if err := c.record("fetch"); err != nil {
		return zone.Record{}, err
	}
	return c.zone.Fetch(ctx, externalID)
}

func (c *countingZone) Delete(ctx context.Context, externalID string) error {
	if err := c.record("delete"); err != nil {
		return err
	}
	return c.zone.Delete(ctx, externalID)
}

func (c *countingZone) Query(ctx context.Context, query zone.Query) ([]zone.Record, error) {
	if err := c.record("query"); err != nil {
		return nil, err
	}
	return c.zone.Query(ctx, query)
}

func (c *countingZone) GenerateRecordID() string {
	c.lock.Lock()
	c.calls["generate"]++
	c.lock.Unlock()
	return c.zone.GenerateRecordID()
}

func (c *countingZone) fail(operation string, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.failures[operation] = err
}

func (c *countingZone) callCount(operation string) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.calls[operation]
}

func (c *countingZone) totalCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

func (c *countingZone) resetCalls() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.calls = make(map[string]int)
}

func (c *countingZone) record(operation string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.calls[operation]++
	return c.failures[operation]
}

type fakeListCache struct {
	lock        sync.Mutex
	lists       map[string][]feed.WebFeed
	invalidated int
	generation  uint64
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{lists: make(map[string][]feed.WebFeed)}
}

func (f *fakeListCache) Get(_ context.Context, containerID string) ([]feed.WebFeed, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	webFeeds, ok := f.lists[containerID]
	return webFeeds, ok
}

func (f *fakeListCache) Generation() uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.generation
}

func (f *fakeListCache) Put(_ context.Context, containerID string, generation uint64, webFeeds []feed.WebFeed) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if generation != f.generation {
		return nil
	}
	f.lists[containerID] = webFeeds
	return nil
}

func (f *fakeListCache) Invalidate(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.lists = make(map[string][]feed.WebFeed)
	f.invalidated++
	f.generation++
	return nil
}
