package cache

import (
	"strings"
	"testing"
)

// Fuzz Set/Get/MGet/Remove under arbitrary string keys and values,
// routed through both hashers.
func FuzzCache_SetGetRemove(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		for _, hash := range []func(string) uint64{HashFNV[string], HashXX[string]} {
			c := New[string, string](Options[string, string]{Capacity: 16, Shards: 3, Hash: hash})

			c.Set(k, v)
			if got, ok := c.Get(k); !ok || got != v {
				t.Fatalf("after Set/Get: want %q, got %q ok=%v", v, got, ok)
			}
			if m := c.MGet([]string{k, k + "\x00"}); len(m) != 1 || m[k] != v {
				t.Fatalf("MGet: %v", m)
			}
			if !c.Remove(k) {
				t.Fatalf("Remove must return true")
			}
			if _, ok := c.Get(k); ok {
				t.Fatalf("key must be absent after Remove")
			}
			_ = c.Close()
		}
	})
}
