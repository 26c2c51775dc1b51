// Package cache provides a generic, sharded in-memory cache with LRU
// eviction, an optional fixed TTL, coalesced loading and lightweight
// metrics hooks.
//
// Design
//
//   - Concurrency: the cache is split into a fixed number of shards, each an
//     lru.LRU engine behind its own sync.Mutex. A key always lives in shard
//     Hash(key) mod Shards. Calls on different shards never contend; calls on
//     the same shard are serialized.
//
//   - Capacity: Options.Capacity is split exactly. Every shard gets
//     Capacity/Shards entries and the first Capacity%Shards shards get one
//     more. LRU order is per shard, so eviction is approximately global.
//
//   - TTL: when Options.TTL > 0 every write stamps the entry with now+TTL.
//     Expiration is lazy: a stale entry is removed only when a read observes
//     it, when capacity pushes it out, or when it is overwritten. There is no
//     background sweeper.
//
//   - Batches: MGet and MSet take one shard lock per key, one at a time.
//     They never deadlock and are not atomic.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using singleflight.
//     If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict signals. Stats() returns
//     the same counters aggregated from padded per-shard atomics.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Shards:   cache.DefaultShards(),
//	})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//
// With TTL
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Shards:   16,
//	    TTL:      time.Minute,
//	})
//
// Batches
//
//	c.MSet([]cache.Entry[string, string]{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}})
//	hits := c.MGet([]string{"a", "b", "c"}) // map[a:1 b:2]
//
// Invalid options (Capacity <= 0, Shards < 1, TTL < 0) make New panic; call
// Options.Validate first when the values come from user input.
package cache
