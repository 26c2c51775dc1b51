package cache

import (
	"sync"

	"github.com/IvanBrykalov/shardlru/internal/util"
	"github.com/IvanBrykalov/shardlru/lru"
)

// shard is an independent partition of the cache: one LRU engine and the
// mutex that serializes every access to it.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu  sync.Mutex
	lru *lru.LRU[K, V]

	metrics Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_       util.CacheLinePad
	hits    util.PaddedCounter
	misses  util.PaddedCounter
	evicts  util.PaddedCounter
	expired util.PaddedCounter
}

// newShard builds a shard holding at most capacity entries.
func newShard[K comparable, V any](capacity int, opt Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{metrics: opt.Metrics}
	if opt.TTL > 0 {
		s.lru = lru.NewWithTTL[K, V](capacity, opt.TTL, opt.Clock)
	} else {
		s.lru = lru.New[K, V](capacity)
	}

	onEvict := opt.OnEvict
	s.lru.OnEvict(func(k K, v V, reason lru.EvictReason) {
		if reason == lru.EvictExpired {
			s.expired.Add(1)
		} else {
			s.evicts.Add(1)
		}
		s.metrics.Evict(reason)
		if onEvict != nil {
			onEvict(k, v, reason)
		}
	})
	return s
}

// Set inserts or updates k→v; may evict this shard's LRU tail.
func (s *shard[K, V]) Set(k K, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Set(k, v)
}

// Get returns the value and promotes the entry; expired entries are dropped.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.lru.Get(k)
	if !ok {
		s.misses.Add(1)
		s.metrics.Miss()
		return v, false
	}
	s.hits.Add(1)
	s.metrics.Hit()
	return v, true
}

// Peek returns the value without promoting it or touching counters.
func (s *shard[K, V]) Peek(k K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Peek(k)
}

// Remove deletes an entry by key. Returns true if the entry existed.
// Explicit removal is not counted as an eviction.
func (s *shard[K, V]) Remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Remove(k)
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Cap returns the capacity assigned to this shard. It never changes.
func (s *shard[K, V]) Cap() int { return s.lru.Cap() }
