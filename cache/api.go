package cache

import "context"

// Cache is a sharded, in-memory key/value cache interface.
// All methods are safe for concurrent use by multiple goroutines.
//
// Every single-key operation locks exactly one shard. Batch operations
// lock one shard per key, one at a time, so they are not atomic: each key
// reflects the cache state at the moment of its own lookup.
type Cache[K comparable, V any] interface {
	// Set inserts or updates k→v, restarts its TTL (if any) and marks it
	// most recently used. Inserting into a full shard evicts its LRU entry.
	Set(k K, v V)

	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted; an expired entry is removed and missed.
	Get(k K) (V, bool)

	// MGet looks up each key in order and returns only the hits.
	MGet(keys []K) map[K]V

	// MSet sets each entry in slice order; later entries win on duplicates
	// and survive eviction pressure over earlier ones in the same shard.
	MSet(entries []Entry[K, V])

	// Remove deletes k if present and returns true on success.
	Remove(k K) bool

	// Len returns the total number of resident entries across all shards,
	// counting expired entries that have not been read since.
	Len() int

	// Stats returns aggregated hit/miss/eviction counters.
	Stats() Stats

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed: writes are dropped and reads miss.
	// It always returns nil.
	Close() error
}
