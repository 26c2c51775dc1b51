package cache

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/jedisct1/dlog"

	"github.com/IvanBrykalov/shardlru/internal/singleflight"
	"github.com/IvanBrykalov/shardlru/internal/util"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// cache is a sharded in-memory KV store over per-shard LRU engines.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	loader func(ctx context.Context, k K) (V, error)

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// It panics if opt.Validate() fails: an invalid configuration is a
// programmer error and there is no sensible way to route keys.
//
// Shard i receives Capacity/Shards entries, plus one for i < Capacity%Shards.
// With Capacity < Shards some shards get zero capacity and drop every write.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if err := opt.Validate(); err != nil {
		panic(err)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Hash == nil {
		opt.Hash = HashFNV[K]
	}
	if opt.Capacity < opt.Shards {
		dlog.Warnf("cache: capacity %d is smaller than shard count %d; %d shards will not retain entries",
			opt.Capacity, opt.Shards, opt.Shards-opt.Capacity)
	}

	caps := util.SplitCapacity(opt.Capacity, opt.Shards)
	cs := make([]*shard[K, V], opt.Shards)
	for i := range cs {
		cs[i] = newShard(caps[i], opt)
	}

	return &cache[K, V]{
		shards: cs,
		hash:   opt.Hash,
		loader: opt.Loader,
	}
}

// ---- Cache[K,V] implementation ----

// Set inserts or updates k→v in the owning shard.
func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Set(k, v)
}

// Get returns the value for k and a presence flag.
func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

// MGet resolves keys one at a time, holding at most one shard lock.
func (c *cache[K, V]) MGet(keys []K) map[K]V {
	out := make(map[K]V, len(keys))
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

// MSet writes entries in order, holding at most one shard lock.
func (c *cache[K, V]) MSet(entries []Entry[K, V]) {
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
}

// Remove deletes k if present and returns true on success.
func (c *cache[K, V]) Remove(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Remove(k)
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Stats sums the per-shard counters.
func (c *cache[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
		st.Evictions += s.evicts.Load()
		st.Expirations += s.expired.Load()
		st.Entries += s.Len()
	}
	return st
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key (singleflight).
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.loader == nil {
		return zero, ErrNoLoader
	}

	v, _, err := c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join; not counted as a second miss
		if v, ok := c.getShard(k).Peek(k); ok {
			return v, nil
		}
		v, err := c.loader(ctx, k)
		if err == nil {
			c.Set(k, v)
		}
		return v, err
	})
	return v, err
}

// ---- helpers ----

// getShard routes k to hash(k) mod len(c.shards).
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
