package cache

import "github.com/IvanBrykalov/shardlru/internal/util"

// HashFNV is the default routing hash (64-bit FNV-1a).
// It supports strings, fixed-size byte arrays, integer kinds, bools and
// fmt.Stringer keys, and panics on anything else.
func HashFNV[K comparable](k K) uint64 { return util.Fnv64a(k) }

// HashXX routes with xxHash64; it accepts the same key types as HashFNV.
func HashXX[K comparable](k K) uint64 { return util.XXHash64(k) }

// DefaultShards returns a shard count suited to this machine:
// the next power of two above 2*GOMAXPROCS, capped at 256.
func DefaultShards() int { return util.ReasonableShardCount() }
