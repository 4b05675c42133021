// Package cache keeps read results keyed by operation and parameters,
// de-duplicates in-flight fetches, and invalidates list reads after
// mutations. Entries have no TTL: they live until an explicit invalidation.
package cache

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status describes the state of a cache entry.
type Status string

const (
	// StatusPending means a fetch for the key is in flight.
	StatusPending Status = "pending"
	// StatusSuccess means the entry holds usable data.
	StatusSuccess Status = "success"
	// StatusError means the last fetch failed; the next read refetches.
	StatusError Status = "error"
)

// Entry is the recorded state of one (operation, parameters) pair.
type Entry struct {
	Key       string
	Data      any
	Status    Status
	Err       error
	Timestamp time.Time
}

// Cache is an in-process read cache with request de-duplication.
// At most one fetch per key is in flight at a time; duplicate concurrent
// reads attach to the existing flight and share its outcome, errors
// included. Errors are never served to later reads.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	// gens counts invalidations per key. A flight records the generation
	// it started under and writes back only if no invalidation happened
	// in between, so a mutation can never be shadowed by a stale read.
	gens    map[string]uint64
	subs    map[int]func(key string)
	nextSub int

	group singleflight.Group
	log   *zap.Logger
}

// New returns an empty Cache.
func New(log *zap.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*Entry),
		gens:    make(map[string]uint64),
		subs:    make(map[int]func(string)),
		log:     log,
	}
}

// Key derives the cache key for an operation and its parameters.
// url.Values encoding sorts parameter names, so equivalent reads collide.
func Key(op string, params url.Values) string {
	if len(params) == 0 {
		return op
	}
	return op + "?" + params.Encode()
}

// Get returns the cached value for key, or runs fetch to produce it.
// The fetch itself is detached from ctx: a caller that gives up waiting
// does not cancel the underlying request, and a completed response still
// populates the cache for future reuse.
func (c *Cache) Get(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.Status == StatusSuccess {
		data := e.Data
		c.mu.Unlock()
		c.log.Debug("cache hit", zap.String("key", key))
		return data, nil
	}
	c.mu.Unlock()

	ch := c.group.DoChan(key, func() (any, error) {
		// A flight that was queued behind a finished one may find the
		// entry already populated.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && e.Status == StatusSuccess {
			data := e.Data
			c.mu.Unlock()
			return data, nil
		}
		gen := c.gens[key]
		c.entries[key] = &Entry{Key: key, Status: StatusPending, Timestamp: time.Now()}
		c.mu.Unlock()

		data, err := fetch(context.WithoutCancel(ctx))

		c.mu.Lock()
		if c.gens[key] != gen {
			// Invalidated while the fetch was in flight. The waiters still
			// get this result, but the cache stays empty so the next read
			// refetches.
			c.mu.Unlock()
			return data, err
		}
		if err != nil {
			c.entries[key] = &Entry{Key: key, Status: StatusError, Err: err, Timestamp: time.Now()}
		} else {
			c.entries[key] = &Entry{Key: key, Data: data, Status: StatusSuccess, Timestamp: time.Now()}
		}
		c.mu.Unlock()

		return data, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Mutate runs op and, on success, invalidates the given keys. Failed
// mutations leave the cache untouched.
func (c *Cache) Mutate(ctx context.Context, invalidates []string, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	c.Invalidate(invalidates...)
	return nil
}

// Invalidate drops the entries for the given keys and notifies subscribers.
// In-flight fetches for the keys are detached: their results are discarded
// and reads issued from here on start fresh. Unknown keys are still
// announced so views depending on them refetch.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gens[key]++
		c.group.Forget(key)
	}
	fns := c.subscribers()
	c.mu.Unlock()

	for _, key := range keys {
		c.log.Debug("cache invalidated", zap.String("key", key))
		for _, fn := range fns {
			fn(key)
		}
	}
}

// InvalidateAll drops every entry, announcing each dropped key.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
		c.gens[key]++
		c.group.Forget(key)
	}
	c.entries = make(map[string]*Entry)
	fns := c.subscribers()
	c.mu.Unlock()

	for _, key := range keys {
		for _, fn := range fns {
			fn(key)
		}
	}
}

// Entry returns a copy of the entry for key, if any.
func (c *Cache) Entry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Subscribe registers fn to be called with each invalidated key.
// The returned function removes the subscription.
func (c *Cache) Subscribe(fn func(key string)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// subscribers snapshots the subscriber list; callers hold c.mu.
func (c *Cache) subscribers() []func(string) {
	fns := make([]func(string), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Fetch is a typed wrapper around Get for callers that know the result type.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		// A key shared by readers of different types is a wiring bug.
		return zero, fmt.Errorf("cache: entry %q holds %T, want %T", key, v, zero)
	}
	return out, nil
}
