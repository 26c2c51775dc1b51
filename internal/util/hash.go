// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fnv64a hashes common key types using 64-bit FNV-1a.
// Supported: string, []byte, [16|32|64]byte, all int/uint widths, uintptr, bool, fmt.Stringer.
// Other key types panic; supply Options.Hash for them.
func Fnv64a[K comparable](k K) uint64 {
	if b, ok := keyBytes(k); ok {
		return fnv64aFromBytes(b)
	}
	if u, ok := keyUint64(k); ok {
		return fnv64aFromUint64(u)
	}
	panic(fmt.Sprintf("util.Fnv64a: unsupported key type %T; convert key to string or provide a custom hasher", k))
}

// XXHash64 hashes the same key types as Fnv64a using xxHash64.
// Faster than FNV on long string keys.
func XXHash64[K comparable](k K) uint64 {
	if s, ok := any(k).(string); ok {
		return xxhash.Sum64String(s)
	}
	if b, ok := keyBytes(k); ok {
		return xxhash.Sum64(b)
	}
	if u, ok := keyUint64(k); ok {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], u)
		return xxhash.Sum64(buf[:])
	}
	panic(fmt.Sprintf("util.XXHash64: unsupported key type %T; convert key to string or provide a custom hasher", k))
}

// keyBytes returns the byte form of byte-like and Stringer keys.
func keyBytes[K comparable](k K) ([]byte, bool) {
	switch v := any(k).(type) {
	case string:
		return []byte(v), true
	case [16]byte:
		return v[:], true
	case [32]byte:
		return v[:], true
	case [64]byte:
		return v[:], true
	case fmt.Stringer:
		// Fallback for pseudo-keys (avoid if you can).
		return []byte(v.String()), true
	}
	return nil, false
}

// keyUint64 widens integer-like keys to uint64.
func keyUint64[K comparable](k K) (uint64, bool) {
	switch v := any(k).(type) {
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uintptr:
		return uint64(v), true
	case int8:
		return uint64(uint8(v)), true
	case int16:
		return uint64(uint16(v)), true
	case int32:
		return uint64(uint32(v)), true
	case int64:
		return uint64(v), true
	case int:
		return uint64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func fnv64aFromBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func fnv64aFromUint64(u uint64) uint64 {
	// Hash the 8 little-endian bytes of u without allocating.
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
