// Package query caches collection fetches by query identity.
//
// A query identity is (kind, page, search). Concurrent fetches of the same
// identity share one backend call. Results stay cached until the kind is
// invalidated, typically after a mutation touching that collection.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key is the identity of one fetch.
type Key struct {
	Kind   string
	Page   int
	Search string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%d|%s", k.Kind, k.Page, k.Search)
}

type entry struct {
	value     any
	fetchedAt time.Time
	stale     bool
}

// Client holds cached results. The zero value is not usable; call New.
type Client struct {
	mu      sync.Mutex
	group   singleflight.Group
	entries map[Key]*entry
	// generation is bumped per kind on Invalidate. A fetch that started
	// before the invalidation neither stores its result nor is joined by
	// fetches issued after it.
	generation map[string]uint64
	log        *zap.SugaredLogger
}

// New returns an empty client. log may be nil.
func New(log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		entries:    make(map[Key]*entry),
		generation: make(map[string]uint64),
		log:        log,
	}
}

// Fetch returns the cached value for key, or calls fn. Callers racing on
// the same key wait for a single call of fn. Errors are never cached.
func Fetch[T any](ctx context.Context, c *Client, key Key, fn func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		if v, ok := e.value.(T); ok {
			c.mu.Unlock()
			c.log.Debugw("query cache hit", "key", key.String())
			return v, nil
		}
	}
	gen := c.generation[key.Kind]
	c.mu.Unlock()

	flight := fmt.Sprintf("%s#%d", key, gen)
	v, err, shared := c.group.Do(flight, func() (any, error) {
		c.log.Debugw("query fetch", "key", key.String())
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation[key.Kind] == gen {
			c.entries[key] = &entry{value: res, fetchedAt: time.Now()}
		}
		c.mu.Unlock()
		return res, nil
	})
	if shared {
		c.log.Debugw("query fetch shared", "key", key.String())
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate marks every cached key of kind stale. The next Fetch of any
// of them goes to the backend.
func (c *Client) Invalidate(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation[kind]++
	n := 0
	for k, e := range c.entries {
		if k.Kind == kind {
			e.stale = true
			n++
		}
	}
	c.log.Debugw("query invalidated", "kind", kind, "keys", n)
}

// Cached reports whether key holds a fresh value.
func (c *Client) Cached(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && !e.stale
}
