package util

import "runtime"

// ReasonableShardCount picks a practical default shard count based on CPU
// parallelism. Heuristic: nextPow2(2*GOMAXPROCS), clamped to [1..256].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	n := int(NextPow2(uint64(p * 2)))
	if n > 256 {
		n = 256
	}
	return n
}

// ShardIndex maps a 64-bit hash to a shard index in [0, shards).
// Power-of-two counts take the mask path, which equals hash % shards.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

// SplitCapacity partitions total across shards. The first total%shards
// shards get one extra unit, so the parts sum to total and differ by at most 1.
func SplitCapacity(total, shards int) []int {
	parts := make([]int, shards)
	per, rem := total/shards, total%shards
	for i := range parts {
		parts[i] = per
		if i < rem {
			parts[i]++
		}
	}
	return parts
}
