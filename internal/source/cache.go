package source

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"salarydash/internal/domain"
)

// ErrNoData is returned when the cache has never held a dataset.
var ErrNoData = errors.New("no dataset loaded")

// Fetcher is anything that can produce a fresh payload.
type Fetcher interface {
	Fetch(ctx context.Context) (Payload, error)
}

// Snapshot is the cached dataset together with when it was fetched.
type Snapshot struct {
	Records   []domain.Record
	Rejects   []domain.Reject
	FetchedAt time.Time
}

// Cache holds a single copy of the dataset shared by the summary view and
// every drill-down. Concurrent misses collapse into one upstream fetch.
type Cache struct {
	mu    sync.RWMutex
	src   Fetcher
	ttl   time.Duration
	cur   *Snapshot
	stale bool
	// gen changes whenever the held copy stops being trustworthy; a fetch
	// started under an older gen never installs its result.
	gen   uint64
	group singleflight.Group

	now func() time.Time
}

func NewCache(src Fetcher, ttl time.Duration) *Cache {
	return &Cache{src: src, ttl: ttl, now: time.Now}
}

// SetSource swaps the upstream and marks the current copy stale.
func (c *Cache) SetSource(src Fetcher, ttl time.Duration) {
	c.mu.Lock()
	c.src = src
	c.ttl = ttl
	c.stale = true
	c.gen++
	c.mu.Unlock()
}

// Seed installs a dataset obtained elsewhere (a stored snapshot). It is
// served by Peek but Get still refetches it.
func (c *Cache) Seed(s Snapshot) {
	c.mu.Lock()
	c.cur = &s
	c.stale = true
	c.gen++
	c.mu.Unlock()
}

// Invalidate makes the next Get refetch. Fetches already in flight still
// answer their callers but are not kept.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.gen++
	c.mu.Unlock()
}

// Peek returns the current copy without fetching.
func (c *Cache) Peek() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cur == nil {
		return Snapshot{}, false
	}
	return *c.cur, true
}

// Current is Peek for callers that want an error when nothing is held.
func (c *Cache) Current() (Snapshot, error) {
	s, ok := c.Peek()
	if !ok {
		return Snapshot{}, ErrNoData
	}
	return s, nil
}

func (c *Cache) fresh() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cur == nil || c.stale {
		return Snapshot{}, false
	}
	if c.ttl > 0 && c.now().Sub(c.cur.FetchedAt) >= c.ttl {
		return Snapshot{}, false
	}
	return *c.cur, true
}

// Get returns the cached dataset, fetching it when missing, stale or older
// than the TTL. A zero TTL keeps a fetched copy until Invalidate.
func (c *Cache) Get(ctx context.Context) (Snapshot, error) {
	if s, ok := c.fresh(); ok {
		return s, nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches unconditionally, sharing the request with concurrent
// callers. A failed fetch leaves the previous copy in place.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.RLock()
	src, gen := c.src, c.gen
	c.mu.RUnlock()

	key := "dataset:" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(key, func() (any, error) {
		p, err := src.Fetch(context.WithoutCancel(ctx))
		if err != nil {
			return Snapshot{}, err
		}
		s := Snapshot{Records: p.Records, Rejects: p.Rejects, FetchedAt: c.now()}

		c.mu.Lock()
		if c.gen == gen {
			c.cur = &s
			c.stale = false
		}
		c.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return res.Val.(Snapshot), nil
	}
}
