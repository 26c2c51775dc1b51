// Package lru implements a single-partition LRU engine with optional
// fixed TTL and lazy expiry.
//
// An LRU is NOT safe for concurrent use. The cache package wraps one engine
// per shard behind a mutex; use it directly only from a single goroutine.
package lru

import (
	"fmt"
	"time"
)

// nilIdx marks the absence of a slot link.
const nilIdx = -1

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

type wallClock struct{}

func (wallClock) NowUnixNano() int64 { return time.Now().UnixNano() }

// EvictReason explains why an entry left the engine.
type EvictReason int

const (
	// EvictCapacity — the LRU tail was removed to stay within capacity.
	EvictCapacity EvictReason = iota
	// EvictExpired — a read observed the entry past its deadline.
	EvictExpired
)

// String returns a stable lowercase name for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	default:
		return fmt.Sprintf("EvictReason(%d)", int(r))
	}
}

// EvictFunc is called synchronously for every eviction.
type EvictFunc[K comparable, V any] func(key K, value V, reason EvictReason)

// Entry is a key/value pair used as ordered batch input.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// slot is one arena cell. Links are slot indices (head is MRU, tail is LRU).
// Free slots are chained through next.
type slot[K comparable, V any] struct {
	key K
	val V

	// Absolute deadline in UnixNano; meaningful only in TTL mode.
	exp int64

	prev, next int
}

// LRU is a bounded key/value store with least-recently-used eviction.
type LRU[K comparable, V any] struct {
	capacity int

	ttlMode bool
	ttl     int64
	clock   Clock

	slots []slot[K, V]
	index map[K]int
	head  int // MRU
	tail  int // LRU
	free  int // head of the free list
	len   int

	onEvict EvictFunc[K, V]
}

// New returns an engine without TTL. Entries never expire.
// capacity may be zero, in which case every write is evicted at once.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 0 {
		panic(fmt.Sprintf("lru: negative capacity %d", capacity))
	}
	return &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]int, capacity),
		head:     nilIdx,
		tail:     nilIdx,
		free:     nilIdx,
	}
}

// NewWithTTL returns an engine in TTL mode: every write stamps the entry
// with now+ttl and reads at or past that instant report a miss.
// A zero ttl is accepted; such entries are already stale when next read.
// A nil clock means wall-clock time.
func NewWithTTL[K comparable, V any](capacity int, ttl time.Duration, clock Clock) *LRU[K, V] {
	if ttl < 0 {
		panic(fmt.Sprintf("lru: negative ttl %v", ttl))
	}
	c := New[K, V](capacity)
	c.ttlMode = true
	c.ttl = int64(ttl)
	c.clock = clock
	if c.clock == nil {
		c.clock = wallClock{}
	}
	return c
}

// OnEvict registers fn to be called for every capacity or expiry eviction.
// Explicit Remove and in-place updates do not trigger it.
func (c *LRU[K, V]) OnEvict(fn EvictFunc[K, V]) { c.onEvict = fn }

// Set inserts or updates k→v and marks it most recently used.
// Inserting past capacity evicts from the tail.
func (c *LRU[K, V]) Set(k K, v V) {
	if i, ok := c.index[k]; ok {
		s := &c.slots[i]
		s.val = v
		if c.ttlMode {
			s.exp = c.deadline()
		}
		c.moveToFront(i)
		return
	}

	i := c.alloc()
	s := &c.slots[i]
	s.key, s.val = k, v
	if c.ttlMode {
		s.exp = c.deadline()
	}
	c.pushFront(i)
	c.index[k] = i

	for c.len > c.capacity {
		c.evict(c.tail, EvictCapacity)
	}
}

// Get returns the value for k and promotes it to most recently used.
// An expired entry is removed and reported as a miss.
func (c *LRU[K, V]) Get(k K) (V, bool) {
	i, ok := c.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	if c.expired(i) {
		c.evict(i, EvictExpired)
		var zero V
		return zero, false
	}
	c.moveToFront(i)
	return c.slots[i].val, true
}

// Peek returns the value for k without touching recency.
// Expired entries are reported as a miss but left in place.
func (c *LRU[K, V]) Peek(k K) (V, bool) {
	i, ok := c.index[k]
	if !ok || c.expired(i) {
		var zero V
		return zero, false
	}
	return c.slots[i].val, true
}

// MGet performs Get for each key in order and returns the hits.
// The result is a new map; misses are absent from it.
func (c *LRU[K, V]) MGet(keys []K) map[K]V {
	out := make(map[K]V, len(keys))
	for _, k := range keys {
		if v, ok := c.Get(k); ok {
			out[k] = v
		}
	}
	return out
}

// MSet performs Set for each entry in slice order. When the batch overflows
// capacity, earlier entries are evicted before later ones; a repeated key
// keeps its last value.
func (c *LRU[K, V]) MSet(entries []Entry[K, V]) {
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
}

// Remove deletes k if present and reports whether it was.
func (c *LRU[K, V]) Remove(k K) bool {
	i, ok := c.index[k]
	if !ok {
		return false
	}
	c.unlink(i)
	delete(c.index, k)
	c.release(i)
	return true
}

// Len returns the number of resident entries, stale ones included.
func (c *LRU[K, V]) Len() int { return c.len }

// Cap returns the configured capacity.
func (c *LRU[K, V]) Cap() int { return c.capacity }

// Keys returns resident keys from most to least recently used.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.len)
	for i := c.head; i != nilIdx; i = c.slots[i].next {
		keys = append(keys, c.slots[i].key)
	}
	return keys
}

// -------------------- internals --------------------

func (c *LRU[K, V]) deadline() int64 { return c.clock.NowUnixNano() + c.ttl }

func (c *LRU[K, V]) expired(i int) bool {
	return c.ttlMode && c.clock.NowUnixNano() >= c.slots[i].exp
}

// alloc returns a free slot index, growing the arena if needed.
func (c *LRU[K, V]) alloc() int {
	if c.free != nilIdx {
		i := c.free
		c.free = c.slots[i].next
		return i
	}
	c.slots = append(c.slots, slot[K, V]{})
	return len(c.slots) - 1
}

// release zeroes slot i and pushes it onto the free list.
func (c *LRU[K, V]) release(i int) {
	c.slots[i] = slot[K, V]{prev: nilIdx, next: c.free}
	c.free = i
}

// pushFront links slot i at the head in O(1).
func (c *LRU[K, V]) pushFront(i int) {
	s := &c.slots[i]
	s.prev = nilIdx
	s.next = c.head
	if c.head != nilIdx {
		c.slots[c.head].prev = i
	}
	c.head = i
	if c.tail == nilIdx {
		c.tail = i
	}
	c.len++
}

// unlink detaches slot i from the list in O(1).
func (c *LRU[K, V]) unlink(i int) {
	s := &c.slots[i]
	if s.prev != nilIdx {
		c.slots[s.prev].next = s.next
	} else {
		c.head = s.next
	}
	if s.next != nilIdx {
		c.slots[s.next].prev = s.prev
	} else {
		c.tail = s.prev
	}
	s.prev, s.next = nilIdx, nilIdx
	c.len--
}

func (c *LRU[K, V]) moveToFront(i int) {
	if i == c.head {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}

// evict removes slot i from list and index, then reports it.
func (c *LRU[K, V]) evict(i int, reason EvictReason) {
	k, v := c.slots[i].key, c.slots[i].val
	c.unlink(i)
	delete(c.index, k)
	c.release(i)
	if c.onEvict != nil {
		c.onEvict(k, v, reason)
	}
}
