package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IvanBrykalov/shardlru/lru"
)

// EvictReason explains why an entry was removed.
type EvictReason = lru.EvictReason

const (
	// EvictCapacity — the shard's LRU tail was removed to stay within capacity.
	EvictCapacity = lru.EvictCapacity
	// EvictTTL — a read found the entry expired (lazy eviction on access).
	EvictTTL = lru.EvictExpired
)

// Entry is one key/value pair of an MSet batch.
type Entry[K comparable, V any] = lru.Entry[K, V]

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock = lru.Clock

// Metrics exposes cache-level observability hooks.
// Calls happen under a shard lock; implementations must be cheap and goroutine-safe.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
}

// Configuration errors reported by Options.Validate.
var (
	ErrInvalidCapacity = errors.New("cache: capacity must be > 0")
	ErrInvalidShards   = errors.New("cache: shard count must be >= 1")
	ErrInvalidTTL      = errors.New("cache: ttl must be >= 0")
)

// Options configures the cache. Capacity and Shards are required;
// other zero values fall back to defaults in New():
//   - TTL == 0     => entries never expire
//   - nil Hash     => HashFNV
//   - nil Metrics  => NoopMetrics
//   - nil Clock    => time.Now()
type Options[K comparable, V any] struct {
	// Capacity is the total entry limit, split across shards.
	Capacity int

	// Shards is the fixed number of independently locked partitions.
	// DefaultShards() gives a CPU-based value.
	Shards int

	// TTL is the lifetime of every entry, counted from its last write.
	// Zero disables expiry here; an engine whose entries are stale at the
	// instant they are written is only available as lru.NewWithTTL(c, 0, clk).
	TTL time.Duration

	// Hash routes keys to shards (hash mod Shards). It must be deterministic.
	Hash func(K) uint64

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called on eviction under the shard lock; keep callbacks lightweight
	// and do not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)
	Metrics Metrics

	// Clock allows overriding time source (tests). Nil => time.Now().
	Clock Clock
}

// Validate reports the first configuration error, if any.
func (o Options[K, V]) Validate() error {
	switch {
	case o.Capacity <= 0:
		return fmt.Errorf("%w (got %d)", ErrInvalidCapacity, o.Capacity)
	case o.Shards < 1:
		return fmt.Errorf("%w (got %d)", ErrInvalidShards, o.Shards)
	case o.TTL < 0:
		return fmt.Errorf("%w (got %v)", ErrInvalidTTL, o.TTL)
	}
	return nil
}
